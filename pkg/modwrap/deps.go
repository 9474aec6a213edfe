package modwrap

import (
	"sort"
	"strings"

	"github.com/modwrap/modwrap/internal/srcinfo"
)

// DepReport classifies the imports of a module file. Stdlib imports are
// satisfied by the embedded interpreter; third-party imports are not, so
// a file listed with third-party imports will fail to load.
type DepReport struct {
	Stdlib     []string `json:"stdlib"`
	ThirdParty []string `json:"third_party"`
}

// Dependencies parses the file at path, without executing it, and
// classifies its imports. An import whose first path segment contains a
// dot is third-party; everything else is standard library.
func Dependencies(path string) (DepReport, error) {
	src, err := srcinfo.Parse(path)
	if err != nil {
		return DepReport{}, newLoadError(path, "invalid Go source", err)
	}

	var report DepReport
	seen := make(map[string]bool)
	for _, imp := range src.Imports {
		if seen[imp] {
			continue
		}
		seen[imp] = true
		first, _, _ := strings.Cut(imp, "/")
		if strings.Contains(first, ".") {
			report.ThirdParty = append(report.ThirdParty, imp)
		} else {
			report.Stdlib = append(report.Stdlib, imp)
		}
	}
	sort.Strings(report.Stdlib)
	sort.Strings(report.ThirdParty)
	return report, nil
}

// Dependencies reports the import classification of the wrapped module.
func (w *Wrapper) Dependencies() (DepReport, error) {
	return Dependencies(w.Path())
}
