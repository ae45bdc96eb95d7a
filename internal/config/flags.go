package config

import (
	"github.com/spf13/pflag"
)

// Flag names that override configuration fields when set.
const (
	FlagSourceDir = "source-dir"
	FlagOutputDir = "output-dir"
	FlagTemplates = "templates"
	FlagPort      = "port"
)

// RegisterPathFlags adds flags overriding the source, output and template
// directories.
func RegisterPathFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagSourceDir, d.Paths.SourceDir, "Source material directory")
	fs.String(FlagOutputDir, d.Paths.OutputDir, "Generated site directory")
	fs.String(FlagTemplates, d.Paths.Templates, "Directory holding custom template overrides")
}

// RegisterServerFlags adds flags overriding the preview server settings.
func RegisterServerFlags(fs *pflag.FlagSet) {
	fs.IntP(FlagPort, "p", Default().Server.Port, "Port for the preview server")
}

// ApplyFlags copies explicitly set flags from fs onto the configuration.
// Flags that were not registered or not changed leave the loaded values alone.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		FlagSourceDir: &c.Paths.SourceDir,
		FlagOutputDir: &c.Paths.OutputDir,
		FlagTemplates: &c.Paths.Templates,
	}
	for name, dst := range strs {
		if !changed(fs, name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if changed(fs, FlagPort) {
		v, err := fs.GetInt(FlagPort)
		if err != nil {
			return err
		}
		c.Server.Port = v
	}

	return c.Validate()
}

func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
