package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pdime/folio/internal/output/css"
	tmplloader "github.com/pdime/folio/internal/output/template"
	"github.com/pdime/folio/internal/site"
)

// templateGroups returns the loaders for every group of embedded templates,
// keyed by the subdirectory their overrides live in.
func (a *app) templateGroups() map[string]*tmplloader.Loader {
	colours := a.cfg.Palette.CSSColours
	return map[string]*tmplloader.Loader{
		site.TemplateGroup: a.site().Loader(),
		css.TemplateGroup:  css.NewGenerator(a.cfg.Site.Name, a.cfg.Paths.Templates, colours, a.logger).Loader(),
	}
}

func (a *app) selectGroups(names []string) (map[string]*tmplloader.Loader, error) {
	all := a.templateGroups()
	if len(names) == 0 {
		return all, nil
	}
	picked := make(map[string]*tmplloader.Loader, len(names))
	for _, n := range names {
		l, ok := all[n]
		if !ok {
			return nil, fmt.Errorf("unknown template group %q", n)
		}
		picked[n] = l
	}
	return picked, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List or dump the embedded page and stylesheet templates",
		Long: `Templates for the generated pages and the CSS variables file are embedded
in the binary. Copies placed under <templates>/<group>/ replace them.

Examples:
  folio templates list
  folio templates dump -g site
  folio templates dump --force`,
	}

	var groups []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List embedded templates and their overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaders, err := a.selectGroups(groups)
			if err != nil {
				return err
			}
			return listTemplates(cmd.OutOrStdout(), loaders)
		},
	}
	list.Flags().StringSliceVarP(&groups, "group", "g", nil, "template groups to list (default: all)")

	var force bool
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Write embedded templates to the templates directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaders, err := a.selectGroups(groups)
			if err != nil {
				return err
			}
			return dumpTemplates(cmd.OutOrStdout(), loaders, force)
		},
	}
	dump.Flags().StringSliceVarP(&groups, "group", "g", nil, "template groups to dump (default: all)")
	dump.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing overrides")

	cmd.AddCommand(list, dump)
	return cmd
}

func listTemplates(out io.Writer, loaders map[string]*tmplloader.Loader) error {
	table := NewTable([]string{"GROUP", "TEMPLATE", "SOURCE", "OVERRIDE PATH"})
	table.SetColumnMaxWidth(3, 60)
	for _, group := range sortedKeys(loaders) {
		names, err := loaders[group].ListEmbeddedTemplates()
		if err != nil {
			return fmt.Errorf("failed to list %s templates: %w", group, err)
		}
		for _, name := range names {
			info := loaders[group].GetInfo(name)
			source := "embedded"
			if info.CustomExists {
				source = "custom"
			}
			table.AddRow([]string{group, info.Filename, source, info.CustomPath})
		}
	}
	fmt.Fprint(out, table.Render())
	fmt.Fprintln(out)
	for _, group := range sortedKeys(loaders) {
		fmt.Fprintf(out, "%s overrides are read from %s\n", group, loaders[group].CustomDir())
	}
	return nil
}

func dumpTemplates(out io.Writer, loaders map[string]*tmplloader.Loader, force bool) error {
	var kept int
	for _, group := range sortedKeys(loaders) {
		written, existing, err := loaders[group].DumpAllTemplates(force)
		for _, p := range written {
			fmt.Fprintf(out, "wrote %s\n", p)
		}
		for _, p := range existing {
			fmt.Fprintf(out, "kept %s\n", p)
		}
		kept += len(existing)
		if err != nil {
			return fmt.Errorf("failed to dump %s templates: %w", group, err)
		}
	}
	if kept > 0 {
		fmt.Fprintf(out, "%d existing override(s) left in place, use --force to overwrite\n", kept)
	}
	return nil
}
