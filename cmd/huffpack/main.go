package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"huffpack/internal/archive"
	"huffpack/internal/checksum"
	"huffpack/internal/config"
	"huffpack/internal/progress"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "huffpack",
	Short: "Huffman folder compression utility",
	Long: "huffpack compresses a whole folder into a single Huffman-coded payload,\n" +
		"persisted as a data artifact plus a tree artifact, and restores it.",
	SilenceUsage: true,
}

var compressCmd = &cobra.Command{
	Use:   "compress <folder> <data-artifact> <tree-artifact>",
	Short: "Compress a folder into an artifact pair",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("Scanning folder: %s\n", args[0])

		bar := progress.New(0)
		result, err := archive.Pack(args[0], args[1], args[2], cfg, bar)
		if err != nil {
			fmt.Println()
			return err
		}
		bar.Finish()

		fmt.Printf("✓ Compression complete\n")
		fmt.Printf("  Files: %d\n", result.Files)
		fmt.Printf("  Raw size: %s\n", archive.FormatSize(result.RawBytes))
		fmt.Printf("  Encoded size: %s (%d symbols in, %d bits out)\n",
			archive.FormatSize(result.EncodedBytes()), result.PayloadSymbols, result.EncodedBits)
		fmt.Printf("  Data artifact: %s\n", args[1])
		fmt.Printf("  Tree artifact: %s\n", args[2])

		if len(result.Skipped) > 0 {
			fmt.Printf("\n⚠ Skipped %d files:\n", len(result.Skipped))
			for _, warning := range result.Skipped {
				fmt.Printf("  - %s\n", warning)
			}
		}
		return nil
	},
}

var decompressCmd = &cobra.Command{
	Use:   "decompress <data-artifact> <output-folder> <tree-artifact>",
	Short: "Restore a folder from an artifact pair",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := archive.Unpack(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		fmt.Printf("✓ Decompression complete\n")
		fmt.Printf("  Files: %d\n", result.Files)
		fmt.Printf("  Output: %s\n", result.Root)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <data-artifact> <tree-artifact>",
	Short: "Show artifact headers without decoding",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := archive.StatData(args[0])
		if err != nil {
			return err
		}
		artifact, err := archive.LoadTree(args[1])
		if err != nil {
			return err
		}

		dataSum, err := checksum.File(args[0])
		if err != nil {
			return err
		}
		treeSum, err := checksum.File(args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Data artifact: %s\n", args[0])
		fmt.Printf("  Format version: %d\n", info.Version)
		fmt.Printf("  Encoded bits: %d (%s packed)\n", info.BitCount, archive.FormatSize(info.PackedSize))
		fmt.Printf("  File checksum: %s\n", dataSum)
		fmt.Printf("Tree artifact: %s\n", args[1])
		fmt.Printf("  Generator: %s\n", artifact.Generator)
		fmt.Printf("  Created: %s\n", artifact.Created.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("  Original folder: %s\n", artifact.Root)
		fmt.Printf("  Indexed files: %d\n", len(artifact.Index))
		fmt.Printf("  File checksum: %s\n", treeSum)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(decompressCmd)
	rootCmd.AddCommand(inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
