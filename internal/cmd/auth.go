package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mhartig/sapjobs/internal/config"
)

type AuthCmd struct {
	Status AuthStatusCmd `cmd:"" help:"Show which credentials resolve and from where."`
}

type AuthStatusCmd struct {
	APIKey  string `name:"api-key" env:"SAPJOBS_API_KEY" help:"RapidAPI key. Overrides secrets.toml."`
	APIHost string `name:"api-host" env:"SAPJOBS_API_HOST" help:"RapidAPI host. Overrides secrets.toml."`
}

type authStatus struct {
	Configured bool   `json:"configured"`
	Key        string `json:"key"`
	KeySource  string `json:"key_source"`
	Host       string `json:"host"`
	HostSource string `json:"host_source"`
}

// Run reports credential resolution without touching the network.
func (a *AuthStatusCmd) Run(ctx *Context) error {
	secrets, err := config.LoadSecrets()
	if err != nil {
		return fmt.Errorf("load secrets: %w", err)
	}
	resolved := config.ResolveCredentials(a.APIKey, a.APIHost, secrets)

	status := authStatus{
		Configured: resolved.Credentials.Configured(),
		Key:        maskKey(resolved.Credentials.Key),
		KeySource:  resolved.KeySource,
		Host:       resolved.Credentials.Host,
		HostSource: resolved.HostSource,
	}
	if status.Host == "" {
		status.Host = "-"
	}

	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	if ctx.PlainText {
		line := []string{
			boolWord(status.Configured),
			status.Key,
			status.KeySource,
			status.Host,
			status.HostSource,
		}
		_, err := fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		return err
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "field\tvalue\tsource")
	fmt.Fprintf(tw, "key\t%s\t%s\n", status.Key, status.KeySource)
	fmt.Fprintf(tw, "host\t%s\t%s\n", status.Host, status.HostSource)
	if err := tw.Flush(); err != nil {
		return err
	}

	if status.Configured {
		ctx.UI.Successf("Credentials configured.")
	} else {
		ctx.UI.Warnf("Credentials incomplete. Run `sapjobs config init` and fill in secrets.toml.")
	}
	return nil
}

// maskKey keeps just enough of the key to recognize it.
func maskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "-"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

func boolWord(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
