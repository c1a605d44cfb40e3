package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ostafen/storagefs/cmd/internal/duparallel"
	"github.com/ostafen/storagefs/pkg/storage"
	"github.com/ostafen/storagefs/pkg/util/format"
)

func DefineDuCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "du <image> [path]",
		Short:        "Sum the SIZE attribute recursively under path (default: root)",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE:         RunDu,
	}
}

func RunDu(cmd *cobra.Command, args []string) error {
	root, closer, err := resolveDuRoot(args)
	if err != nil {
		return err
	}
	defer closer.Close()

	total, err := duparallel.Sum(root)
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%d bytes\n", format.FormatBytes(total), total)
	return nil
}

func DefineDuParallelCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "du-parallel <image> [path]",
		Short:        "Like du, but fans out over the immediate children with a bounded worker pool",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE:         RunDuParallel,
	}
}

func RunDuParallel(cmd *cobra.Command, args []string) error {
	root, closer, err := resolveDuRoot(args)
	if err != nil {
		return err
	}
	defer closer.Close()

	total, err := duparallel.Parallel(context.Background(), root, rootLogger())
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%d bytes\n", format.FormatBytes(total), total)
	return nil
}

func resolveDuRoot(args []string) (storage.File, io.Closer, error) {
	m, closer, err := openMount(args[0])
	if err != nil {
		return nil, nil, err
	}

	root := m.Root
	if len(args) == 2 {
		root, err = storage.LookupPath(m.Root, args[1])
		if err != nil {
			closer.Close()
			return nil, nil, storage.Wrapf(err, "du %q", args[1])
		}
	}
	return root, closer, nil
}
