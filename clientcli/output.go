package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sagarc03/herostore"
)

// Formatter formats results for output.
type Formatter interface {
	FormatHeroes(w io.Writer, heroes []herostore.Hero) error
	FormatHero(w io.Writer, hero herostore.Hero) error
	FormatUpdate(w io.Writer, result UpdateResult) error
	FormatDelete(w io.Writer, results []DeleteResult) error
	FormatLoad(w io.Writer, result herostore.BulkResult) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatHeroes formats a hero listing as a table.
func (f *HumanFormatter) FormatHeroes(w io.Writer, heroes []herostore.Hero) error {
	if len(heroes) == 0 {
		_, _ = fmt.Fprintln(w, "No heroes found")
		return nil
	}

	// Calculate column widths
	maxIDLen := 2 // "ID"
	for i := range heroes {
		if n := len(fmt.Sprint(heroes[i].ID)); n > maxIDLen {
			maxIDLen = n
		}
	}

	// Print header
	_, _ = fmt.Fprintf(w, "%*s  %s\n", maxIDLen, "ID", "NAME")
	_, _ = fmt.Fprintf(w, "%s  %s\n", strings.Repeat("-", maxIDLen), strings.Repeat("-", 20))

	for i := range heroes {
		_, _ = fmt.Fprintf(w, "%*d  %s\n", maxIDLen, heroes[i].ID, truncate(heroes[i].Name, 60))
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d hero(es)\n", len(heroes))
	}

	return nil
}

// FormatHero formats a single hero.
func (f *HumanFormatter) FormatHero(w io.Writer, hero herostore.Hero) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, hero.ID)
		return nil
	}
	_, _ = fmt.Fprintf(w, "ID:   %d\n", hero.ID)
	_, _ = fmt.Fprintf(w, "Name: %s\n", hero.Name)
	return nil
}

// FormatUpdate formats an update result.
func (f *HumanFormatter) FormatUpdate(w io.Writer, result UpdateResult) error {
	if !result.Updated {
		_, _ = fmt.Fprintf(w, "Not found: %d\n", result.ID)
		return nil
	}
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Updated: %d\n", result.ID)
	}
	return nil
}

// FormatDelete formats delete results as human-readable text.
func (f *HumanFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	for i := range results {
		r := &results[i]
		switch {
		case r.Err != nil:
			_, _ = fmt.Fprintf(w, "Error: %d - %v\n", r.ID, r.Err)
		case !r.Deleted:
			_, _ = fmt.Fprintf(w, "Not found: %d\n", r.ID)
		case !f.Quiet:
			_, _ = fmt.Fprintf(w, "Deleted: %d\n", r.ID)
		}
	}
	return nil
}

// FormatLoad formats a bulk load result.
func (f *HumanFormatter) FormatLoad(w io.Writer, result herostore.BulkResult) error {
	if !f.Quiet {
		for _, h := range result.Created {
			_, _ = fmt.Fprintf(w, "Created: %d %s\n", h.ID, h.Name)
		}
	}
	for _, failed := range result.Failed {
		_, _ = fmt.Fprintf(w, "Error: %s - %s\n", failed.Hero.Name, failed.Error)
	}
	_, _ = fmt.Fprintf(w, "\n%d created, %d failed\n", len(result.Created), len(result.Failed))
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	// Calculate column widths
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].Endpoint) > maxEndpointLen {
			maxEndpointLen = len(profiles[i].Endpoint)
		}
	}
	maxNameLen = min(maxNameLen, 20)
	maxEndpointLen = min(maxEndpointLen, 50)

	// Print header
	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "TIMEOUT")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 7))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxEndpointLen, truncate(p.Endpoint, maxEndpointLen),
			timeoutLabel(p.Timeout),
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Timeout:  %s\n", timeoutLabel(profile.Timeout))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatHeroes formats heroes as a JSON array.
func (f *JSONFormatter) FormatHeroes(w io.Writer, heroes []herostore.Hero) error {
	if heroes == nil {
		heroes = []herostore.Hero{}
	}
	return writeJSON(w, heroes)
}

// FormatHero formats a hero as JSON.
func (f *JSONFormatter) FormatHero(w io.Writer, hero herostore.Hero) error {
	return writeJSON(w, hero)
}

// FormatUpdate formats an update result as JSON.
func (f *JSONFormatter) FormatUpdate(w io.Writer, result UpdateResult) error {
	return writeJSON(w, result)
}

// FormatDelete formats delete results as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, results []DeleteResult) error {
	// Convert errors to strings for JSON output
	type jsonResult struct {
		ID      int    `json:"id"`
		Deleted bool   `json:"deleted"`
		Error   string `json:"error,omitempty"`
	}

	output := struct {
		Results []jsonResult `json:"results"`
	}{
		Results: make([]jsonResult, len(results)),
	}

	for i, r := range results {
		jr := jsonResult{
			ID:      r.ID,
			Deleted: r.Deleted,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		output.Results[i] = jr
	}

	return writeJSON(w, output)
}

// FormatLoad formats a bulk load result as JSON.
func (f *JSONFormatter) FormatLoad(w io.Writer, result herostore.BulkResult) error {
	return writeJSON(w, result)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Timeout  string `json:"timeout,omitempty"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			Endpoint: p.Endpoint,
			Timeout:  p.Timeout,
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault bool) error {
	output := struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Timeout  string `json:"timeout"`
		Default  bool   `json:"default"`
	}{
		Name:     profile.Name,
		Endpoint: profile.Endpoint,
		Timeout:  timeoutLabel(profile.Timeout),
		Default:  isDefault,
	}

	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n || n <= 3 {
		return s
	}
	return s[:n-3] + "..."
}

func timeoutLabel(timeout string) string {
	if timeout == "" {
		return DefaultTimeout.String()
	}
	return timeout
}
