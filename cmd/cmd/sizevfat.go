package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ostafen/storagefs/internal/fat/mkfs"
)

func DefineSizeVfatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "size-vfat <sectors>...",
		Short:        "Preview the FAT variant/size/cluster-count decision for one or more sector counts, without writing anything",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunSizeVfat,
	}
	cmd.Flags().Uint16("sector-size", 512, "bytes per sector")
	return cmd
}

func RunSizeVfat(cmd *cobra.Command, args []string) error {
	sectorSize, _ := cmd.Flags().GetUint16("sector-size")

	for _, arg := range args {
		var sectors uint64
		if _, err := fmt.Sscanf(arg, "%d", &sectors); err != nil {
			return fmt.Errorf("size-vfat: invalid sector count %q: %w", arg, err)
		}

		plan, err := mkfs.ComputePlan(mkfs.Params{
			TotalSize:  sectors * uint64(sectorSize),
			SectorSize: sectorSize,
		})
		if err != nil {
			fmt.Printf("%d sectors: %v\n", sectors, err)
			continue
		}
		fmt.Printf("%d sectors: %s, fat_size=%d sectors, clusters=%d\n",
			sectors, plan.Variant, plan.FATSize, plan.ClusterCount())
	}
	return nil
}
