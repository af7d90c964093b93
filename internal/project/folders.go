package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/neuroblueprint/shuttle/internal/config"
)

// makeTree creates the requested folder tree under root/topLevel and
// returns every leaf path it ensured, sorted by creation order.
// Creation is idempotent: folders that already exist are left alone.
//
// Datatype folders live inside session folders. When no sessions are
// requested only the subject folders are made; datatypes without a
// session level to attach to are rejected upstream.
func makeTree(root, topLevel string, subs, sess, datatypes []string) ([]string, error) {
	var created []string
	for _, sub := range subs {
		subPath := filepath.Join(root, topLevel, sub)
		if len(sess) == 0 {
			if err := ensureDir(subPath); err != nil {
				return nil, err
			}
			created = append(created, subPath)
			continue
		}
		for _, ses := range sess {
			sesPath := filepath.Join(subPath, ses)
			if len(datatypes) == 0 {
				if err := ensureDir(sesPath); err != nil {
					return nil, err
				}
				created = append(created, sesPath)
				continue
			}
			for _, datatype := range datatypes {
				dtPath := filepath.Join(sesPath, datatype)
				if err := ensureDir(dtPath); err != nil {
					return nil, err
				}
				created = append(created, dtPath)
			}
		}
	}
	return created, nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating folder %s: %w", path, err)
	}
	return nil
}

// expandDatatypes resolves the requested datatypes: "all" expands to
// every canonical datatype, anything non-canonical is rejected.
func expandDatatypes(datatypes []string) ([]string, error) {
	for _, d := range datatypes {
		if d == "all" {
			return config.Datatypes, nil
		}
	}
	for _, d := range datatypes {
		if !config.IsDatatype(d) {
			return nil, fmt.Errorf("datatype %q is not recognized, must be one of %v or \"all\"", d, config.Datatypes)
		}
	}
	return datatypes, nil
}
