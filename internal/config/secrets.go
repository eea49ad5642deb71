package config

import (
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/mhartig/sapjobs/internal/linkedin"
)

// Credential sources, in resolution order.
const (
	SourceFlag    = "flag"
	SourceEnv     = "environment"
	SourceSecrets = "secrets file"
	SourceNone    = "not set"
)

// Secrets is the parsed secrets.toml.
type Secrets struct {
	RapidAPI struct {
		Key  string `toml:"key"`
		Host string `toml:"host"`
	} `toml:"rapidapi"`
}

const secretsTemplate = `# RapidAPI credentials for the LinkedIn Job Search API.
# Subscribe at https://rapidapi.com and paste your key here.
[rapidapi]
key = ""
host = "` + linkedin.DefaultHost + `"
`

// LoadSecrets reads secrets.toml. A missing file is not an error; the zero
// Secrets just resolves to unconfigured credentials.
func LoadSecrets() (Secrets, error) {
	path, err := SecretsPath()
	if err != nil {
		return Secrets{}, err
	}
	return loadSecretsFrom(path)
}

func loadSecretsFrom(path string) (Secrets, error) {
	var secrets Secrets
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return secrets, nil
		}
		return secrets, err
	}
	if err := toml.Unmarshal(data, &secrets); err != nil {
		return secrets, err
	}
	return secrets, nil
}

// ResolvedCredentials carries the credentials plus where each field came
// from, so `auth status` can explain itself.
type ResolvedCredentials struct {
	Credentials linkedin.Credentials
	KeySource   string
	HostSource  string
}

// ResolveCredentials applies the precedence flag > environment > secrets
// file, per field. The CLI layer already folds SAPJOBS_API_* into the flag
// values, so the environment step only consults the RAPIDAPI_* names.
func ResolveCredentials(flagKey, flagHost string, secrets Secrets) ResolvedCredentials {
	resolved := ResolvedCredentials{KeySource: SourceNone, HostSource: SourceNone}

	switch {
	case strings.TrimSpace(flagKey) != "":
		resolved.Credentials.Key = strings.TrimSpace(flagKey)
		resolved.KeySource = SourceFlag
	case envString("RAPIDAPI_KEY", "") != "":
		resolved.Credentials.Key = envString("RAPIDAPI_KEY", "")
		resolved.KeySource = SourceEnv
	case strings.TrimSpace(secrets.RapidAPI.Key) != "":
		resolved.Credentials.Key = strings.TrimSpace(secrets.RapidAPI.Key)
		resolved.KeySource = SourceSecrets
	}

	switch {
	case strings.TrimSpace(flagHost) != "":
		resolved.Credentials.Host = strings.TrimSpace(flagHost)
		resolved.HostSource = SourceFlag
	case envString("RAPIDAPI_HOST", "") != "":
		resolved.Credentials.Host = envString("RAPIDAPI_HOST", "")
		resolved.HostSource = SourceEnv
	case strings.TrimSpace(secrets.RapidAPI.Host) != "":
		resolved.Credentials.Host = strings.TrimSpace(secrets.RapidAPI.Host)
		resolved.HostSource = SourceSecrets
	}

	return resolved
}
