package config

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Snapshot computes a stable hash of the configuration fields that affect
// build output. Logging and preview settings are left out.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) { h.Write([]byte(strings.Join(parts, "="))); h.Write([]byte{0}) }
	w("content.root", c.Content.Root)
	w("content.data_dir", c.Content.DataDir)
	w("content.pages_dir", c.Content.PagesDir)
	w("content.extensions", strings.Join(c.Content.Extensions, ","))
	w("schema.path", c.Schema.Path)
	w("schema.site_config_type", c.Schema.SiteConfigType)
	if c.Annotations.Enabled {
		w("annotations.object_id_attr", c.Annotations.ObjectIDAttr)
		w("annotations.field_path_attr", c.Annotations.FieldPathAttr)
	}
	return hex.EncodeToString(h.Sum(nil))
}
