package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"massnet.org/shapipe/logging"
	"massnet.org/shapipe/sha256core"
)

func init() {
	sumCmd.Flags().IntVar(&cfg.lanes, "lanes", defaultLanes, "number of parallel compression lanes (N-engine pipeline)")
	sumCmd.Flags().BoolVar(&cfg.unbounded, "unbounded", defaultUnbounded, "allow an unbounded input buffer")
	sumCmd.Flags().IntVar(&cfg.bufferCapacity, "buffer_capacity", defaultBufferCapacity, "input buffer cap in bytes, used when --unbounded=false")
}

var sumCmd = &cobra.Command{
	Use:   "sum [file...]",
	Short: "Print the SHA-256 digest of each file, or of stdin if none given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return sumReader(os.Stdin, "-")
		}
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				logging.CPrint(logging.ERROR, "failed to open file", logging.LogFormat{"path": path, "err": err})
				return err
			}
			err = sumReader(f, path)
			f.Close()
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func sumReader(r io.Reader, label string) error {
	var h *sha256core.Hasher
	if cfg.unbounded {
		h = sha256core.NewPipelined(cfg.lanes)
	} else {
		h = sha256core.NewBoundedPipelined(cfg.bufferCapacity, cfg.lanes)
	}
	if _, err := io.Copy(h, r); err != nil {
		return err
	}
	digest, err := h.Finalize()
	if err != nil {
		return err
	}
	fmt.Printf("%x  %s\n", digest, label)
	return nil
}
