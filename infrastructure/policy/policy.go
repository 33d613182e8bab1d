package policy

import (
	"os"

	"golang.org/x/xerrors"

	"xdpwall/domain/valueobject"
	"xdpwall/infrastructure/log"
)

// LoadPolicy loads the seed policy from path. A missing file yields no commands.
func LoadPolicy(path string) (commands []valueobject.Command, err error) {
	parser := NewYamlParser()
	var rawPolicyData []byte
	rawPolicyData, err = parser.Load(path)
	if err != nil {
		if xerrors.Is(err, os.ErrNotExist) {
			log.Logger.Infof("no policy file at %s, starting with an empty table", path)
			return nil, nil
		}
		err = xerrors.Errorf("failed to read policy file: %w", err)
		return
	}

	commands, err = parser.Parse(rawPolicyData)
	if err != nil {
		err = xerrors.Errorf(": %w", err)
		return
	}
	return
}
