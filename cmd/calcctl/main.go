// calcctl клиент gRPC сервиса калькулятора.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/GGmuzem/calculator-api/pkg/calculator"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const defaultAddr = "localhost:50052"

// dialFunc открывает соединение с сервером; в тестах подменяется на bufconn
type dialFunc func(ctx context.Context, addr string) (*grpc.ClientConn, error)

func dialInsecure(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	return grpc.DialContext(ctx, addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

type options struct {
	addr    string
	token   string
	timeout time.Duration
}

func newRootCmd(dial dialFunc) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "calcctl",
		Short:         "Command line client for the calculator gRPC service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", defaultAddr, "gRPC server address")
	root.PersistentFlags().StringVar(&opts.token, "token", "", "bearer token; calculations are saved to the user's history")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "request timeout")

	root.AddCommand(newCalcCmd(opts, dial), newOperationsCmd(opts, dial))
	return root
}

func newCalcCmd(opts *options, dial dialFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "calc <operation> <x> <y>",
		Short: "Perform a calculation",
		Long: `Perform a calculation on the server and print the result.

Examples:
  calcctl calc add 5 3
  calcctl calc divide 20 4
  calcctl calc -- subtract -3 7   # negative numbers after --`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q: %w", args[1], err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q: %w", args[2], err)
			}

			return withClient(cmd.Context(), opts, dial, func(ctx context.Context, client calculator.CalculatorClient) error {
				resp, err := client.Calculate(ctx, &calculator.CalculateRequest{Operation: args[0], X: x, Y: y})
				if err != nil {
					return rpcError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(resp.Result, 'g', -1, 64))
				return nil
			})
		},
	}
}

func newOperationsCmd(opts *options, dial dialFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List supported operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), opts, dial, func(ctx context.Context, client calculator.CalculatorClient) error {
				resp, err := client.ListOperations(ctx, &calculator.ListOperationsRequest{})
				if err != nil {
					return rpcError(err)
				}
				for _, name := range resp.Operations {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}

// withClient открывает соединение, добавляет токен и таймаут, вызывает fn
func withClient(ctx context.Context, opts *options, dial dialFunc, fn func(context.Context, calculator.CalculatorClient) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	conn, err := dial(ctx, opts.addr)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к %s: %w", opts.addr, err)
	}
	defer conn.Close()

	if opts.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+opts.token)
	}
	return fn(ctx, calculator.NewCalculatorClient(conn))
}

// rpcError оставляет только текст статуса сервера
func rpcError(err error) error {
	if st, ok := status.FromError(err); ok {
		return fmt.Errorf("%s: %s", st.Code(), st.Message())
	}
	return err
}

func main() {
	if err := newRootCmd(dialInsecure).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
