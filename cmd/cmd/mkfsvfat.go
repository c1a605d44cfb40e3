package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ostafen/storagefs/internal/fat/mkfs"
	"github.com/ostafen/storagefs/internal/fs"
)

func DefineMkfsVfatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mkfs-vfat <image> <sectors>",
		Short:        "Format image as a fresh FAT12/16/32 filesystem",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunMkfsVfat,
	}
	cmd.Flags().Uint16("sector-size", 0, "bytes per sector (profile or default if unset)")
	cmd.Flags().Uint8("per-cluster", 0, "sectors per cluster (profile or default if unset)")
	cmd.Flags().String("label", "", "volume label")
	cmd.Flags().String("profile", "", "named BPB-parameter profile ("+profileNames()+")")
	cmd.Flags().Bool("force-fat16", false, "always format as FAT16")
	cmd.Flags().Bool("force-fat32", false, "always format as FAT32")
	return cmd
}

func RunMkfsVfat(cmd *cobra.Command, args []string) error {
	imagePath, sectorsArg := args[0], args[1]

	sectorSize, _ := cmd.Flags().GetUint16("sector-size")
	perCluster, _ := cmd.Flags().GetUint8("per-cluster")
	label, _ := cmd.Flags().GetString("label")
	profile, _ := cmd.Flags().GetString("profile")
	forceFAT16, _ := cmd.Flags().GetBool("force-fat16")
	forceFAT32, _ := cmd.Flags().GetBool("force-fat32")

	var sectors uint64
	if _, err := fmt.Sscanf(sectorsArg, "%d", &sectors); err != nil {
		return fmt.Errorf("mkfs-vfat: invalid sector count %q: %w", sectorsArg, err)
	}

	params := mkfs.Params{
		SectorSize:  sectorSize,
		PerCluster:  perCluster,
		VolumeLabel: label,
		ForceFAT16:  forceFAT16,
		ForceFAT32:  forceFAT32,
	}
	if profile != "" {
		var err error
		params, err = mkfs.ApplyProfile(params, profile)
		if err != nil {
			return fmt.Errorf("mkfs-vfat: %w (%s)", err, profileNames())
		}
	}
	// TotalSize depends on the (possibly profile-supplied) sector size,
	// so it is resolved after the profile merge, not before.
	effectiveSectorSize := params.SectorSize
	if effectiveSectorSize == 0 {
		effectiveSectorSize = 512
	}
	params.TotalSize = sectors * uint64(effectiveSectorSize)

	plan, err := mkfs.ComputePlan(params)
	if err != nil {
		return err
	}

	w, err := fs.CreateWriter(imagePath, int64(plan.TotalSize))
	if err != nil {
		return err
	}
	defer w.Close()

	if err := mkfs.Write(w, plan); err != nil {
		return err
	}

	fmt.Printf("formatted %s: %s, %d sectors/cluster, FAT size %d sectors, %d clusters\n",
		imagePath, plan.Variant, plan.SectorsPerCluster, plan.FATSize, plan.ClusterCount())
	return nil
}

func profileNames() string {
	s := ""
	for name := range mkfs.Profiles {
		if s != "" {
			s += ", "
		}
		s += name
	}
	return s
}
