package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ostafen/storagefs/pkg/storage"
)

func DefineFindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "find <image> <path>",
		Short:        "Resolve or glob-match a path inside a mounted image",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunFind,
	}
	return cmd
}

func RunFind(cmd *cobra.Command, args []string) error {
	imagePath, lookup := args[0], args[1]

	m, closer, err := openMount(imagePath)
	if err != nil {
		return err
	}
	defer closer.Close()

	if !hasGlobMeta(lookup) {
		f, err := storage.LookupPath(m.Root, lookup)
		if err != nil {
			return storage.Wrapf(err, "find %q", lookup)
		}
		printEntry(lookup, f)
		return nil
	}

	return walkGlob(m.Root, "", lookup)
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// walkGlob recursively visits dir, printing every descendant whose
// slash-joined path matches pattern per path.Match's semantics (a "*"
// segment does not cross a "/").
func walkGlob(f storage.File, prefix, pattern string) error {
	d, err := f.Dir()
	if err != nil {
		return storage.Wrap("find: glob walk", err)
	}
	if d == nil {
		return nil
	}

	buf := make([]byte, 256)
	for {
		entry, ok, err := d.Next(buf)
		if err != nil {
			return storage.Wrap("find: glob walk", err)
		}
		if !ok {
			return nil
		}
		if entry.Type == storage.FTParent {
			continue
		}
		name := string(buf[:min(entry.Nlen, len(buf))])
		full := name
		if prefix != "" {
			full = prefix + "/" + name
		}

		matched, err := path.Match(pattern, full)
		if err != nil {
			return storage.Wrap("find: bad pattern", err)
		}
		if matched {
			fmt.Println(full)
		}

		if entry.Type == storage.FTDirectory {
			child, err := f.Open(entry.Offset)
			if err != nil {
				continue
			}
			if err := walkGlob(child, full, pattern); err != nil {
				return err
			}
		}
	}
}

func printEntry(name string, f storage.File) {
	size, _ := f.Attr().Get(storage.KeySize, nil)
	fmt.Printf("%s\t%s\t%d\n", name, f.Type(), size.U64())
}
