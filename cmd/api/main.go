package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/residencia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/residencia-api/pkg/config"
	"github.com/jhoicas/residencia-api/pkg/jwt"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "residencia-api",
		Short: "API de inventario y remisiones de la residencia",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Inicia el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			seedDemo, _ := cmd.Flags().GetBool("seed-demo")
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(cfg, seedDemo)
		},
	}
	cmd.Flags().Bool("seed-demo", false, "Con STORE_DRIVER=memory, carga un residente y un colaborador de ejemplo")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de la base de datos",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *postgres.Migrator) error {
				count, err := m.Up(ctx)
				if err != nil {
					return fmt.Errorf("migración fallida: %w", err)
				}
				fmt.Printf("%d migración(es) aplicada(s).\n", count)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Muestra el estado de las migraciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, m *postgres.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return fmt.Errorf("estado de migraciones: %w", err)
				}
				fmt.Printf("%-8s %-30s %-10s %s\n", "VERSION", "NOMBRE", "ESTADO", "APLICADA")
				for _, s := range statuses {
					status, appliedAt := "pendiente", ""
					if s.Applied {
						status = "aplicada"
						if s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
					}
					fmt.Printf("%-8d %-30s %-10s %s\n", s.Version, s.Name, status, appliedAt)
				}
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(fn func(ctx context.Context, m *postgres.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, postgres.NewMigrator(pool))
}

// tokenCmd emite un JWT para pruebas locales; la emisión real pertenece al módulo de usuarios.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un Bearer token firmado con JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			switch role {
			case jwt.RoleAdmin, jwt.RoleEnfermeria, jwt.RoleAlmacen:
			default:
				return fmt.Errorf("rol desconocido %q", role)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	cmd.Flags().String("user", "local", "ID de usuario (claim user_id)")
	cmd.Flags().String("role", jwt.RoleAdmin, "Rol: admin | enfermeria | almacen")
	return cmd
}
