// Package issues migrates issues between GitHub repositories. A migrated issue
// keeps its title, body, labels, comment bodies and closed state; authors,
// timestamps and reactions are not carried over.
package issues
