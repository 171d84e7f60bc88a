// Command padic is a small calculator over the p-adic parents of the padic
// library: it evaluates rationals, Teichmuller lifts, logarithms and
// exponentials and prints their expansions.
package main

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hensel/padic"
	"github.com/hensel/padic/precision"
)

var (
	flagPrime   int64
	flagPrec    int
	flagVariant string
	flagField   bool
	flagMode    string
)

var rootCmd = &cobra.Command{
	Use:   "padic",
	Short: "A calculator for precision-tracked p-adic arithmetic.",
	Long:  "A calculator for precision-tracked p-adic arithmetic over Z_p and Q_p.",
}

func parent() (*padic.Ring, error) {
	var variant precision.Variant
	switch flagVariant {
	case "fixed-mod":
		variant = precision.FixedModulus
	case "capped-abs":
		variant = precision.CappedAbsolute
	case "capped-rel":
		variant = precision.CappedRelative
	case "floating-point":
		variant = precision.FloatingPoint
	default:
		return nil, fmt.Errorf("unknown variant %q", flagVariant)
	}
	opts := []padic.Option{padic.WithPrintOptions(padic.PrintOptions{Mode: padic.PrintMode(flagMode), Pos: true})}
	p := big.NewInt(flagPrime)
	if flagField {
		return padic.NewField(p, flagPrec, variant, opts...)
	}
	return padic.New(p, flagPrec, variant, opts...)
}

func parseElement(r *padic.Ring, s string) (*padic.Element, error) {
	if strings.ContainsRune(s, '/') {
		q, ok := new(big.Rat).SetString(s)
		if !ok {
			return nil, fmt.Errorf("cannot parse rational %q", s)
		}
		return r.FromRat(q)
	}
	z, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("cannot parse integer %q", s)
	}
	return r.FromBigInt(z), nil
}

var evalCmd = &cobra.Command{
	Use:   "eval [rational]",
	Short: "Print the p-adic expansion of a rational number.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parent()
		if err != nil {
			return err
		}
		x, err := parseElement(r, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%v in %v:\n  %v\n", args[0], r, x)
		return nil
	},
}

var teichCmd = &cobra.Command{
	Use:   "teichmuller [residue]",
	Short: "Print the Teichmuller lift of a residue.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parent()
		if err != nil {
			return err
		}
		x, err := parseElement(r, args[0])
		if err != nil {
			return err
		}
		t, err := r.Teichmuller(x, 0)
		if err != nil {
			return err
		}
		fmt.Printf("%v\n", t)
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log [rational]",
	Short: "Print the p-adic logarithm, with log(p) = 0.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parent()
		if err != nil {
			return err
		}
		x, err := parseElement(r, args[0])
		if err != nil {
			return err
		}
		l, err := x.Log(r.Zero())
		if err != nil {
			return err
		}
		fmt.Printf("%v\n", l)
		return nil
	},
}

var expCmd = &cobra.Command{
	Use:   "exp [rational]",
	Short: "Print the p-adic exponential.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parent()
		if err != nil {
			return err
		}
		x, err := parseElement(r, args[0])
		if err != nil {
			return err
		}
		e, err := x.Exp()
		if err != nil {
			return err
		}
		fmt.Printf("%v\n", e)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Int64VarP(&flagPrime, "prime", "p", 5, "the prime p")
	rootCmd.PersistentFlags().IntVarP(&flagPrec, "prec", "N", 20, "precision cap")
	rootCmd.PersistentFlags().StringVar(&flagVariant, "variant", "capped-rel", "precision variant (fixed-mod|capped-abs|capped-rel|floating-point)")
	rootCmd.PersistentFlags().BoolVar(&flagField, "field", false, "work in Q_p instead of Z_p")
	rootCmd.PersistentFlags().StringVar(&flagMode, "print-mode", "series", "print mode (series|val-unit|terse|digits|bars)")
	rootCmd.AddCommand(evalCmd, teichCmd, logCmd, expCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
