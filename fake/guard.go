package fake

import (
	"path/filepath"
	"regexp"
	"strings"
)

var guardIllegal = regexp.MustCompile(`[^A-Z0-9_]`)

// IncludeGuard returns guard macro derived from file name, e.g. driver_fake.h -> DRIVER_FAKE_H_
func IncludeGuard(name string) string {
	base := strings.ToUpper(filepath.Base(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = guardIllegal.ReplaceAllString(base, "")
	if base == "" || (base[0] >= '0' && base[0] <= '9') {
		base = "_" + base
	}
	return base + "_H_"
}
