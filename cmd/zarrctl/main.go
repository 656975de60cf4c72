// Command zarrctl is a thin, blocking driver over the array engine: create,
// inspect and resize arrays, and read/write single regions, from the shell.
// It exists purely as an ambient operational surface around package array —
// none of its own code participates in the codec pipeline.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TuSKan/zarrcore/array"

	zc "github.com/TuSKan/zarrcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zarrctl:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zarrctl",
		Short:         "Inspect and manipulate chunked array stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("store", "", "store URL, e.g. file:///tmp/arr or mem://")
	root.PersistentFlags().Int("concurrency", zc.DefaultConcurrency, "bounded in-flight store operations")
	viper.BindPFlag("store", root.PersistentFlags().Lookup("store"))
	viper.BindPFlag("concurrency", root.PersistentFlags().Lookup("concurrency"))
	viper.SetEnvPrefix("ZARRCTL")
	viper.AutomaticEnv()

	root.AddCommand(newShowCmd(), newCreateCmd(), newResizeCmd(), newGetCmd(), newPutCmd())
	return root
}

func openArray(ctx context.Context, prefix string) (*array.Array, error) {
	storeURL := viper.GetString("store")
	if storeURL == "" {
		return nil, fmt.Errorf("--store (or ZARRCTL_STORE) is required")
	}
	path, _, err := array.OpenStore(ctx, storeURL, prefix)
	if err != nil {
		return nil, err
	}
	rt := zc.RuntimeConfiguration{Concurrency: viper.GetInt("concurrency")}
	return array.Open(ctx, path, array.WithRuntime(rt))
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <prefix>",
		Short: "Print an array's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openArray(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m := a.Metadata()
			data, err := m.ToBytes()
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

func newCreateCmd() *cobra.Command {
	var shapeFlag, chunkFlag []int
	var dtypeFlag string
	cmd := &cobra.Command{
		Use:   "create <prefix>",
		Short: "Create a new array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			storeURL := viper.GetString("store")
			if storeURL == "" {
				return fmt.Errorf("--store (or ZARRCTL_STORE) is required")
			}
			path, _, err := array.OpenStore(ctx, storeURL, args[0])
			if err != nil {
				return err
			}
			dtype, err := zc.ParseDType(dtypeFlag)
			if err != nil {
				return err
			}
			spec := zc.ArraySpec{
				Shape:     zc.Shape(shapeFlag),
				DType:     dtype,
				FillValue: dtype.DefaultFillValue(),
				Order:     zc.OrderC,
			}
			_, err = array.Create(ctx, path, spec, zc.ChunkShape(chunkFlag))
			if err != nil {
				return err
			}
			fmt.Printf("created array at %s\n", path.Key())
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&shapeFlag, "shape", nil, "array shape, e.g. --shape 100,200")
	cmd.Flags().IntSliceVar(&chunkFlag, "chunks", nil, "chunk shape, e.g. --chunks 10,20")
	cmd.Flags().StringVar(&dtypeFlag, "dtype", "float64", "element data type")
	cmd.MarkFlagRequired("shape")
	cmd.MarkFlagRequired("chunks")
	return cmd
}

func newResizeCmd() *cobra.Command {
	var shapeFlag []int
	cmd := &cobra.Command{
		Use:   "resize <prefix>",
		Short: "Resize an existing array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openArray(ctx, args[0])
			if err != nil {
				return err
			}
			_, err = a.Resize(ctx, zc.Shape(shapeFlag))
			return err
		},
	}
	cmd.Flags().IntSliceVar(&shapeFlag, "shape", nil, "new array shape")
	cmd.MarkFlagRequired("shape")
	return cmd
}

func newGetCmd() *cobra.Command {
	var indexFlag []int
	cmd := &cobra.Command{
		Use:   "get <prefix>",
		Short: "Print a single element at the given index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openArray(ctx, args[0])
			if err != nil {
				return err
			}
			sel := make(zc.Selection, len(indexFlag))
			for i, idx := range indexFlag {
				sel[i] = zc.DimSelector{Start: idx, Stop: idx + 1, IsIndex: true}
			}
			nd, err := a.GetItem(ctx, sel)
			if err != nil {
				return err
			}
			dtype, err := a.DType()
			if err != nil {
				return err
			}
			v, err := zc.DecodeScalar(dtype, nd.Data)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&indexFlag, "index", nil, "element index, one value per dimension")
	cmd.MarkFlagRequired("index")
	return cmd
}

func newPutCmd() *cobra.Command {
	var indexFlag []int
	var valueFlag string
	cmd := &cobra.Command{
		Use:   "put <prefix>",
		Short: "Write a single element at the given index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openArray(ctx, args[0])
			if err != nil {
				return err
			}
			dtype, err := a.DType()
			if err != nil {
				return err
			}
			bytesVal, err := zc.EncodeScalar(dtype, parseValue(valueFlag))
			if err != nil {
				return err
			}
			sel := make(zc.Selection, len(indexFlag))
			for i, idx := range indexFlag {
				sel[i] = zc.DimSelector{Start: idx, Stop: idx + 1, IsIndex: true}
			}
			nd := &zc.NDArray{Shape: zc.Shape{}, DType: dtype, Order: zc.OrderC, Data: bytesVal}
			return a.SetItem(ctx, sel, nd)
		},
	}
	cmd.Flags().IntSliceVar(&indexFlag, "index", nil, "element index, one value per dimension")
	cmd.Flags().StringVar(&valueFlag, "value", "", "value to write")
	cmd.MarkFlagRequired("index")
	cmd.MarkFlagRequired("value")
	return cmd
}

func parseValue(s string) any {
	var f float64
	if _, err := fmt.Sscanf(s, "%f", &f); err == nil {
		return f
	}
	return s
}
