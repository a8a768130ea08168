package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cretz/sandboxd/config"
	"github.com/cretz/sandboxd/executor"
	"github.com/cretz/sandboxd/limits"
	"github.com/cretz/sandboxd/runtime"
	"github.com/cretz/sandboxd/security"
)

func runCmd() *cobra.Command {
	var obj string
	cmd := &cobra.Command{
		Use:          "run LANGUAGE -- CODE",
		Short:        "Run one submission locally without the HTTP/admission layers",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirectExec(cmd.Context(), args[0], args[1], obj)
		},
	}
	cmd.Flags().StringVar(&obj, "obj", "", "Base64-encoded JSON passed to a user-defined main(obj)")
	return cmd
}

func runDirectExec(ctx context.Context, language, code, obj string) error {
	cfg := config.Load()
	reg := runtime.NewRegistry(cfg)
	desc, ok := reg.Resolve(language)
	if !ok {
		return fmt.Errorf("unsupported language: %v", language)
	}

	if reason := security.Check(code, desc.Family, desc.AllowedModules); reason != "" {
		fmt.Println(reason)
		return nil
	}

	runner, err := executor.New()
	if err != nil {
		return fmt.Errorf("initializing runner: %w", err)
	}
	l := limits.Resolve(cfg.ResourceLimits, desc.Family)
	command, cmdArgs := executor.BuildInvocation(desc, code, obj)

	outcome, err := runner.Run(ctx, command, cmdArgs, l)
	if err != nil {
		return fmt.Errorf("running submission: %w", err)
	}
	if outcome.Stdout != "" {
		fmt.Print(outcome.Stdout)
	}
	if outcome.Error != "" {
		fmt.Println(outcome.Error)
	}
	return nil
}
