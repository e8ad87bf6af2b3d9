// Package catalog loads the static section tables the field templates are
// derived from. Each file describes one set (reentry, adult, juvenile,
// generic) with its ordered sections and the candidate pool offered while the
// set is active. The defaults ship embedded; LoadFS accepts any fs.FS holding
// JSON or YAML files with the same shape.
package catalog
