// Command wardrobe edits the pet's outfit and species from the shell.
//
//	wardrobe equip hat-1
//	wardrobe remove-all
//	wardrobe species puppy
//	wardrobe list
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pocketpet/server/internal/domain/outfit"
	"github.com/pocketpet/server/internal/infra/storage"
	"github.com/pocketpet/server/internal/platform/config"
	"github.com/pocketpet/server/internal/platform/logger"
	"github.com/pocketpet/server/internal/wardrobe"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wardrobe [-config pet.yaml] equip <outfit-id> | remove-all | species <id> | list")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "pet.yaml", "Path to the YAML config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "wardrobe:", err)
		os.Exit(1)
	}
}

func run(configPath string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	w := wardrobe.New(storage.NewSQLiteKVStore(db), logger.Discard())
	ctx := context.Background()

	switch args[0] {
	case "equip":
		if len(args) != 2 {
			return fmt.Errorf("equip needs one outfit id")
		}
		category, src, err := w.Equip(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s\n", category, src)
	case "remove-all":
		if err := w.RemoveAll(ctx); err != nil {
			return err
		}
		fmt.Println("all accessories removed")
	case "species":
		if len(args) != 2 {
			return fmt.Errorf("species needs one id")
		}
		if err := w.SelectSpecies(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("species -> %s (restart the pet to apply)\n", args[1])
	case "list":
		sp, err := w.Species(ctx)
		if err != nil {
			return err
		}
		outfits, err := w.Outfits(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("species: %s\n", sp)
		for _, c := range outfit.Categories {
			src := outfits[c]
			if src == "" {
				src = "-"
			}
			fmt.Printf("%-8s %s\n", c+":", src)
		}
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}
