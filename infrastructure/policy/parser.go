package policy

import (
	"os"

	"github.com/thoas/go-funk"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"xdpwall/domain/valueobject"
	"xdpwall/infrastructure/log"
	"xdpwall/pkg/convert"
)

type Parser interface {
	Load(path string) ([]byte, error)
	Parse(rawPolicyData []byte) ([]valueobject.Command, error)
}

type YamlPolicies struct {
	Policies []struct {
		Host   string `yaml:"host"`
		Action string `yaml:"action"`
	}
}

// ToCommands resolves every host and returns one command per address, without duplicates.
func (y *YamlPolicies) ToCommands() (commands []valueobject.Command, err error) {
	commands = make([]valueobject.Command, 0, len(y.Policies))
	for i, yamlPolicy := range y.Policies {
		kind, ok := valueobject.ParseCommandKind(yamlPolicy.Action)
		if !ok {
			err = xerrors.Errorf("policies[%d]: unknown action: %q", i, yamlPolicy.Action)
			return
		}

		var addrs []valueobject.Address
		addrs, err = resolve(yamlPolicy.Host)
		if err != nil {
			err = xerrors.Errorf("policies[%d]: %w", i, err)
			return
		}
		for _, addr := range addrs {
			commands = append(commands, valueobject.Command{Kind: kind, Address: addr})
		}
	}

	commands = funk.Uniq(commands).([]valueobject.Command)
	return
}

func resolve(host string) ([]valueobject.Address, error) {
	ips, err := convert.HostToIPv4s(host)
	if err != nil {
		return nil, xerrors.Errorf("failed to resolve host %q: %w", host, err)
	}
	addrs := make([]valueobject.Address, 0, len(ips))
	for _, ip := range ips {
		addr, err := valueobject.AddressFromIP(ip)
		if err != nil {
			return nil, xerrors.Errorf("failed to convert %s: %w", ip, err)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

type YamlParser struct {
}

func NewYamlParser() (parser *YamlParser) {
	parser = &YamlParser{}
	return
}

func (p *YamlParser) Load(path string) (rawPolicyData []byte, err error) {
	log.Logger.Debugf("trying to load policy path: %s", path)
	rawPolicyData, err = os.ReadFile(path)
	return
}

func (p *YamlParser) Parse(rawPolicyData []byte) (commands []valueobject.Command, err error) {
	var yamlData YamlPolicies
	err = yaml.UnmarshalStrict(rawPolicyData, &yamlData)
	if err != nil {
		err = xerrors.Errorf("failed to unmarshal yaml policy: %w", err)
		return
	}
	commands, err = yamlData.ToCommands()
	if err != nil {
		err = xerrors.Errorf("failed to convert yaml data to commands: %w", err)
		return
	}
	return
}
