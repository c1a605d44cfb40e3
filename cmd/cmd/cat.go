package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/storagefs/pkg/storage"
)

// catChunkSize is the fixed read size cat streams in, per SPEC_FULL §4.14.
const catChunkSize = 32 * 1024

func DefineCatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cat <image> <path>",
		Short:        "Stream a file's contents to stdout",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunCat,
	}
	return cmd
}

func RunCat(cmd *cobra.Command, args []string) error {
	imagePath, lookup := args[0], args[1]

	m, closer, err := openMount(imagePath)
	if err != nil {
		return err
	}
	defer closer.Close()

	f, err := storage.LookupPath(m.Root, lookup)
	if err != nil {
		return storage.Wrapf(err, "cat %q", lookup)
	}
	if f.Type() == storage.FTDirectory {
		return storage.ErrInvalidFormatf("cat: %q is a directory", lookup)
	}

	buf := make([]byte, catChunkSize)
	var off uint64
	for {
		n, err := f.ReadBytes(off, buf)
		if err != nil {
			return storage.Wrapf(err, "cat %q", lookup)
		}
		if n == 0 {
			return nil
		}
		if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
			return werr
		}
		off += uint64(n)
	}
}
