package main

import (
	_ "embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"xdpwall/cmd"
	"xdpwall/config"
	"xdpwall/constant"
	"xdpwall/domain/entity"
	"xdpwall/handler"
	"xdpwall/infrastructure/capture"
	"xdpwall/infrastructure/loader"
	"xdpwall/infrastructure/log"
	"xdpwall/infrastructure/policy"
	policyRepo "xdpwall/infrastructure/repository/impl/policy"
	policyRepoIface "xdpwall/infrastructure/repository/interface/policy"
	"xdpwall/usecase/go/classifier"
)

//go:embed usecase/ebpf/xdp.c
var xdpProg []byte

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:           constant.ProgName,
	Short:         "Programmable XDP packet firewall",
	Long:          `Classifies incoming IPv4 frames by source address and blocks sources observed sending ICMP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return xerrors.Errorf("invalid configuration: %w", err)
		}
		return run(cfg)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&cfg.Interface, "iface", "i", cfg.Interface, "Network interface to classify")
	rootCmd.Flags().StringVar(&cfg.Mode, "mode", cfg.Mode, "Record source: xdp or socket")
	rootCmd.Flags().StringVar(&cfg.XDPMode, "xdp-mode", cfg.XDPMode, "XDP attach mode: skb or native")
	rootCmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of observers")
	rootCmd.Flags().StringVar(&cfg.PolicyPath, "policy", cfg.PolicyPath, "Seed policy file")
	rootCmd.Flags().StringVar(&cfg.APIAddr, "api-addr", cfg.APIAddr, "REST API listen address, empty to disable")
}

func run(cfg *config.Config) (err error) {
	defer log.Logger.Sync()

	seeds, err := policy.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return xerrors.Errorf("failed to load policy path: %s: %w", cfg.PolicyPath, err)
	}

	table, writer := entity.NewPolicyTable(constant.PolicyCapacity)

	var (
		router   cmd.Router
		attacher cmd.Attacher
		mirror   policyRepoIface.Repository
	)
	switch cfg.Mode {
	case config.ModeXDP:
		l := loader.NewLoader(xdpProg, cfg.Interface, cfg.XDPMode)
		m, err := l.LoadModule()
		if err != nil {
			return xerrors.Errorf("failed to load module: %w", err)
		}
		defer func() {
			if err := l.UnLoadModule(m); err != nil {
				log.Logger.Errorf("failed to unload module: %+v", err)
			}
		}()
		repo := policyRepo.NewPolicyRepository(m)
		defer func() {
			if err := repo.Verify(table.Entries()); err != nil {
				log.Logger.Errorf("failed to verify kernel policy table: %+v", err)
			}
		}()
		router = cmd.NewRouter(m)
		attacher = l
		mirror = repo
	case config.ModeSocket:
		sock, err := capture.OpenPacketSocket(cfg.Interface)
		if err != nil {
			return xerrors.Errorf("failed to open capture: %w", err)
		}
		router = cmd.NewSocketRouter(capture.NewSource(sock, classifier.New(table)))
		log.Logger.Warnf("socket mode only observes traffic, drop decisions are not enforced")
	}

	updater := handler.NewPolicyUpdater(writer, mirror, constant.CommandQueueDepth)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	return cmd.Execute(cfg, router, attacher, table, updater, seeds, sig, nil)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Logger.Fatalf("%+v", err)
	}
}
