package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	goJWT "github.com/MrEthical07/goJWT"
)

var (
	errNoToken     = errors.New("no token given")
	errNoBlacklist = errors.New("revocation needs JWT_BLACKLIST_ENABLED=true")
)

// IssueCmd signs a token.
type IssueCmd struct {
	Subject string            `arg:"" help:"Value of the sub claim."`
	Issuer  string            `name:"issuer" help:"Value of the iss claim, normally the service root URL."`
	Claim   map[string]string `short:"C" help:"Custom claim as key=value. JSON values keep their type."`
}

// Run prints the signed token.
func (c *IssueCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger, out io.Writer) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	e, err := engine(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	raw, err := e.IssueWithClaims(ctx,
		goJWT.StaticRequest{RootURL: c.Issuer},
		goJWT.SubjectID(c.Subject),
		parseClaims(c.Claim))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, raw)
	return err
}

// VerifyCmd checks a token.
type VerifyCmd struct {
	Token string `arg:"" optional:"" help:"Token to verify. Empty or '-' reads stdin."`
}

// Run prints the verified claims as indented JSON.
func (c *VerifyCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger, in io.Reader, out io.Writer) error {
	raw, err := readToken(c.Token, in)
	if err != nil {
		return err
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}
	e, err := engine(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := e.Payload(ctx, raw)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintln(out, "valid")
	_, err = fmt.Fprintln(out, string(body))
	return err
}

// RevokeCmd blacklists a token.
type RevokeCmd struct {
	Token   string `arg:"" optional:"" help:"Token to revoke. Empty or '-' reads stdin."`
	Forever bool   `help:"Revoke for ten years regardless of exp."`
}

// Run revokes the token in the configured store.
func (c *RevokeCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger, in io.Reader, out io.Writer) error {
	raw, err := readToken(c.Token, in)
	if err != nil {
		return err
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if !cfg.Blacklist.Enabled {
		return errNoBlacklist
	}
	e, err := engine(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.Invalidate(ctx, goJWT.StaticRequest{Token: raw}, c.Forever); err != nil {
		return err
	}
	msg := "revoked until expiry"
	if c.Forever {
		msg = "revoked forever"
	}
	color.New(color.FgYellow).Fprintln(out, msg)
	return nil
}

// CheckCmd validates the configuration.
type CheckCmd struct{}

// Run prints the effective settings and fails when the engine cannot sign
// and verify a token.
func (c *CheckCmd) Run(ctx context.Context, g *Globals, logger *slog.Logger, out io.Writer) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	e, err := engine(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	cyan := color.New(color.FgCyan)
	cyan.Fprintln(out, "Configuration")
	fmt.Fprintf(out, "  Algorithm:   %s\n", e.Algorithm())
	fmt.Fprintf(out, "  TTL:         %dm\n", cfg.TTL)
	fmt.Fprintf(out, "  Leeway:      %s\n", cfg.Leeway)
	if e.BlacklistEnabled() {
		fmt.Fprintf(out, "  Blacklist:   %s (%s)\n", cfg.Blacklist.Cache.Provider, cfg.Blacklist.Cache.Name)
	} else {
		fmt.Fprintln(out, "  Blacklist:   disabled")
	}

	raw, err := e.Issue(ctx, goJWT.StaticRequest{}, goJWT.SubjectID("jwtctl-check"))
	if err != nil {
		return fmt.Errorf("issue: %w", err)
	}
	if _, err := e.Payload(ctx, raw); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	color.New(color.FgGreen).Fprintln(out, "ok")
	return nil
}

// readToken returns arg, or the first line of in when arg is empty or "-".
func readToken(arg string, in io.Reader) (string, error) {
	if arg != "" && arg != "-" {
		return strings.TrimSpace(arg), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	raw, _, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
	if raw == "" {
		return "", errNoToken
	}
	return strings.TrimSpace(raw), nil
}

// parseClaims decodes each value as JSON, keeping it as a string when it
// is not valid JSON.
func parseClaims(in map[string]string) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, s := range in {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			v = s
		}
		out[k] = v
	}
	return out
}
