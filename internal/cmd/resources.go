package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-dashboard/api"
	"github.com/jrsteele09/go-dashboard/internal/tui"
	"github.com/jrsteele09/go-dashboard/listview"
	"github.com/jrsteele09/go-dashboard/resources"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// resourceCmd builds the list/get/create/update/delete/browse commands for
// one resource kind.
func resourceCmd[T any, P tui.RecordPtr[T]](use string, kind resources.Kind, aliases ...string) *cobra.Command {
	noun := strings.ToLower(kind.Name)
	cmd := &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   fmt.Sprintf("Manage %s", noun),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s one page at a time", noun),
		Long: fmt.Sprintf(`List %s one page at a time.

Sortable fields: %s
Filters: %s

Examples:
  dashboard %s list --page 2 --sort %s --direction desc
  dashboard %s list --search portal --filter status=active`,
			noun, strings.Join(kind.SortFields(), ", "), strings.Join(kind.Filters, ", "),
			use, kind.SortFields()[0], use),
		Args: cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			res := api.NewResource[T](a.client, kind)
			ctrl, loc, err := newListController(cmd, a, kind, res)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			ctrl.Mount()
			ctrl.Wait()
			log.Debug().Str("location", loc.String()).Msg("list query")

			state := ctrl.State()
			if state.Error != "" {
				return fmt.Errorf("%s", state.Error)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tui.Table[T, P](kind, state.Items, state.Query))
			fmt.Fprintln(out, tui.Summary(ctrl.Pagination()))
			return nil
		}),
	}
	addQueryFlags(listCmd)

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: fmt.Sprintf("Browse %s interactively", noun),
		Args:  cobra.NoArgs,
		RunE: withApp(true, func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			res := api.NewResource[T](a.client, kind)
			ctrl, loc, err := newListController(cmd, a, kind, res)
			if err != nil {
				return err
			}
			defer func() {
				ctrl.Close()
				ctrl.Wait()
				log.Info().Str("location", loc.String()).Msg("browser closed")
			}()
			return tui.Run[T, P](cmd.Context(), kind, ctrl, res.Delete)
		}),
	}
	addQueryFlags(browseCmd)

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one of the %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			record, err := api.NewResource[T](a.client, kind).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, record)
		}),
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create one of the %s from JSON", noun),
		Long: fmt.Sprintf(`Create one of the %s from a JSON document.

Examples:
  dashboard %s create --data '{"name": "Launch", "status": "active"}'
  dashboard %s create --file record.json`, noun, use, use),
		Args: cobra.NoArgs,
		RunE: withApp(false, func(cmd *cobra.Command, _ []string, a *app) error {
			record, err := readRecord[T](cmd)
			if err != nil {
				return err
			}
			created, err := api.NewResource[T](a.client, kind).Create(cmd.Context(), record)
			if err != nil {
				return err
			}
			if created == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Created.")
				return nil
			}
			return printJSON(cmd, created)
		}),
	}
	addRecordFlags(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Replace one of the %s with JSON", noun),
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			record, err := readRecord[T](cmd)
			if err != nil {
				return err
			}
			updated, err := api.NewResource[T](a.client, kind).Update(cmd.Context(), id, record)
			if err != nil {
				return err
			}
			if updated == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Updated.")
				return nil
			}
			return printJSON(cmd, updated)
		}),
	}
	addRecordFlags(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete one of the %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: withApp(false, func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := api.NewResource[T](a.client, kind).Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d.\n", id)
			return nil
		}),
	}

	cmd.AddCommand(listCmd, browseCmd, getCmd, createCmd, updateCmd, deleteCmd)
	return cmd
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "page number")
	cmd.Flags().Int("per-page", 0, "records per page (default from config)")
	cmd.Flags().String("sort", "", "field to sort by")
	cmd.Flags().String("direction", listview.SortAsc, "sort direction, asc or desc")
	cmd.Flags().String("search", "", "free text search")
	cmd.Flags().StringToString("filter", nil, "filters as key=value, repeatable")
}

func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "record as inline JSON")
	cmd.Flags().String("file", "", "path to a JSON file holding the record")
}

// newListController starts a list controller whose location is seeded from
// the query flags, the way a bookmarked URL would seed a page.
func newListController[T any](cmd *cobra.Command, a *app, kind resources.Kind, res *api.Resource[T]) (*listview.Controller[T], *listview.MemoryLocation, error) {
	values, err := queryFromFlags(cmd, kind)
	if err != nil {
		return nil, nil, err
	}
	loc, err := listview.NewMemoryLocation(kind.Path + "?" + values.Encode())
	if err != nil {
		return nil, nil, err
	}
	ctrl := listview.New(res.List, loc,
		listview.WithDebounce(a.config.GetListDebounce()),
		listview.WithDefaultPerPage(a.config.GetDefaultPerPage()),
	)
	return ctrl, loc, nil
}

func queryFromFlags(cmd *cobra.Command, kind resources.Kind) (url.Values, error) {
	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	sortBy, _ := cmd.Flags().GetString("sort")
	direction, _ := cmd.Flags().GetString("direction")
	search, _ := cmd.Flags().GetString("search")
	filters, _ := cmd.Flags().GetStringToString("filter")

	q := listview.Query{Page: page, PerPage: perPage, Search: search, Filters: map[string]string{}}
	if sortBy != "" {
		if !kind.IsSortable(sortBy) {
			return nil, fmt.Errorf("cannot sort %s by %q, choose one of: %s",
				strings.ToLower(kind.Name), sortBy, strings.Join(kind.SortFields(), ", "))
		}
		if direction != listview.SortAsc && direction != listview.SortDesc {
			return nil, fmt.Errorf("sort direction must be %s or %s", listview.SortAsc, listview.SortDesc)
		}
		q.SortField, q.SortDirection = sortBy, direction
	}
	for key, value := range filters {
		if !kind.IsFilter(key) {
			return nil, fmt.Errorf("unknown filter %q for %s", key, strings.ToLower(kind.Name))
		}
		q.Filters[key] = value
	}
	return q.Values(), nil
}

func readRecord[T any](cmd *cobra.Command) (*T, error) {
	data, _ := cmd.Flags().GetString("data")
	path, _ := cmd.Flags().GetString("file")

	raw := []byte(data)
	switch {
	case data != "" && path != "":
		return nil, fmt.Errorf("use either --data or --file, not both")
	case path != "":
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	case data == "":
		return nil, fmt.Errorf("--data or --file is required")
	}

	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("invalid record JSON: %w", err)
	}
	return &record, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(
		resourceCmd[resources.Project, *resources.Project]("projects", resources.Projects, "project"),
		resourceCmd[resources.Task, *resources.Task]("tasks", resources.Tasks, "task"),
		resourceCmd[resources.InventoryItem, *resources.InventoryItem]("inventory", resources.InventoryItems, "inventory-items"),
	)
}
