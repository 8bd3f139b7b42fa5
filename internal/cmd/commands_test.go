package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-dashboard/internal/config"
	"github.com/jrsteele09/go-dashboard/resources"
	"github.com/jrsteele09/go-dashboard/server"
	"github.com/jrsteele09/go-dashboard/token"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func findCommand(parent *cobra.Command, name string) *cobra.Command {
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestRootSubcommands(t *testing.T) {
	for _, name := range []string{"login", "logout", "whoami", "refresh", "register", "metrics", "contact", "projects", "tasks", "inventory", "serve"} {
		require.NotNil(t, findCommand(rootCmd, name), "subcommand %q not registered", name)
	}
}

func TestResourceSubcommands(t *testing.T) {
	for _, resource := range []string{"projects", "tasks", "inventory"} {
		parent := findCommand(rootCmd, resource)
		require.NotNil(t, parent)
		for _, name := range []string{"list", "browse", "get", "create", "update", "delete"} {
			require.NotNil(t, findCommand(parent, name), "%s %s not registered", resource, name)
		}

		list := findCommand(parent, "list")
		for _, flag := range []string{"page", "per-page", "sort", "direction", "search", "filter"} {
			require.NotNil(t, list.Flags().Lookup(flag), "%s list has no --%s", resource, flag)
		}
	}
}

func TestLoginFlags(t *testing.T) {
	require.NotNil(t, loginCmd.Flags().Lookup("email"))
	require.NotNil(t, loginCmd.Flags().Lookup("password"))
}

func TestQueryFromFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
		err      string
	}{
		{"defaults", nil, "page=1&per_page=0", ""},
		{"sorted and filtered", []string{"--page", "3", "--sort", "name", "--direction", "desc", "--filter", "status=active"}, "page=3&per_page=0&sort_by=name&sort_direction=desc&status=active", ""},
		{"search", []string{"--search", "portal"}, "page=1&per_page=0&search=portal", ""},
		{"unsortable field", []string{"--sort", "id"}, "", `cannot sort projects by "id"`},
		{"bad direction", []string{"--sort", "name", "--direction", "up"}, "", "sort direction must be asc or desc"},
		{"unknown filter", []string{"--filter", "owner=me"}, "", `unknown filter "owner"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			addQueryFlags(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))

			values, err := queryFromFlags(cmd, resources.Projects)
			if tt.err != "" {
				require.ErrorContains(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, values.Encode())
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	for _, arg := range []string{"0", "-1", "abc"} {
		_, err := parseID(arg)
		require.Error(t, err, arg)
	}
}

func TestSessionAcrossInvocations(t *testing.T) {
	cfg, err := config.Parse([]byte("env: TEST\nseed_data: true\n"))
	require.NoError(t, err)
	dev, err := server.New(cfg, server.NewInMemoryRepos(nil), token.NewIssuer(token.NewHMACSigner("test-secret")))
	require.NoError(t, err)
	srv := httptest.NewServer(dev)
	t.Cleanup(srv.Close)

	tokenFile := filepath.Join(t.TempDir(), "token.json")
	t.Setenv("API_URL", srv.URL)
	t.Setenv("TOKEN_STORE", config.TokenStoreFile)
	t.Setenv("TOKEN_FILE", tokenFile)
	t.Setenv("LOG_LEVEL", "error")

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs(args)
		t.Cleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetArgs(nil)
		})
		err := Execute()
		return out.String(), err
	}

	_, err = run("whoami")
	require.ErrorContains(t, err, "not logged in")

	out, err := run("login", "--email", server.DemoUserEmail, "--password", server.DemoUserPassword)
	require.NoError(t, err)
	require.Contains(t, out, "Logged in as Demo User <demo@example.com>")
	require.FileExists(t, tokenFile)

	out, err = run("whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Demo User")
	require.Contains(t, out, "Session: authenticated")

	out, err = run("projects", "list", "--page", "2", "--per-page", "5", "--sort", "name")
	require.NoError(t, err)
	require.Contains(t, out, "Internal Wiki")
	require.Contains(t, out, "Security Audit")
	require.NotContains(t, out, "Website Redesign")
	require.Contains(t, out, "Showing 6 to 10 of 12 results (page 2 of 3)")

	out, err = run("tasks", "get", "1")
	require.NoError(t, err)
	require.Contains(t, out, `"project_id"`)

	out, err = run("logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out.")
	_, statErr := os.Stat(tokenFile)
	require.True(t, os.IsNotExist(statErr))
}
