package cli

import "strings"

// listFlag is a repeatable string flag. The first Set replaces the default.
type listFlag struct {
	values []string
	set    bool
}

func newListFlag(defaults ...string) *listFlag {
	return &listFlag{values: defaults}
}

func (f *listFlag) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(f.values, ",")
}

func (f *listFlag) Set(v string) error {
	if !f.set {
		f.values = nil
		f.set = true
	}
	f.values = append(f.values, v)
	return nil
}
