package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgerfile/ledgerfile/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "passwd":
		runPasswd(ctx, os.Args[2:])
	case "backup":
		runBackup(ctx, os.Args[2:])
	case "restore":
		runRestore(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "export":
		runExport(ctx, os.Args[2:])
	case "customer":
		runCustomer(ctx, os.Args[2:])
	case "invoice":
		runInvoice(ctx, os.Args[2:])
	case "item":
		runItem(ctx, os.Args[2:])
	case "rental":
		runRental(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runInit(_ context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Init()
}

func runStatus(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Status(ctx)
}

func runPasswd(_ context.Context, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Passwd()
}

func runBackup(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerfile backup <file>")
		os.Exit(1)
	}

	cmd.Backup(ctx, fs.Arg(0))
}

func runRestore(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerfile restore <file>")
		os.Exit(1)
	}

	cmd.Restore(ctx, fs.Arg(0))
}

func runDiff(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerfile diff <file>")
		os.Exit(1)
	}

	cmd.Diff(ctx, fs.Arg(0))
}

func runCompact(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Compact(ctx)
}

func runKeyring(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerfile keyring <save|delete|status>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave()
	case "delete":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring subcommand: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: ledgerfile keyring <save|delete|status>")
		os.Exit(1)
	}
}

func runExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Export(ctx)
}

func runCustomer(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerfile customer <add|ls|rm>")
		os.Exit(1)
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("customer add", flag.ExitOnError)
		name := fs.String("name", "", "Customer name (required)")
		email := fs.String("email", "", "Email address")
		phone := fs.String("phone", "", "Phone number")
		address := fs.String("address", "", "Postal address")
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		if *name == "" {
			fmt.Fprintln(os.Stderr, "Usage: ledgerfile customer add --name <name> [--email ...] [--phone ...] [--address ...]")
			os.Exit(1)
		}
		cmd.CustomerAdd(ctx, *name, *email, *phone, *address)
	case "ls":
		cmd.CustomerList(ctx)
	case "rm":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: ledgerfile customer rm <id|name>")
			os.Exit(1)
		}
		cmd.CustomerRemove(ctx, args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown customer subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func runInvoice(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerfile invoice <add|ls|pay>")
		os.Exit(1)
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("invoice add", flag.ExitOnError)
		number := fs.String("number", "", "Invoice number (required)")
		customer := fs.String("customer", "", "Customer ID or name (required)")
		desc := fs.String("desc", "", "Line description (required)")
		qty := fs.Int64("qty", 1, "Quantity")
		cents := fs.Int64("cents", 0, "Unit price in cents")
		dueDays := fs.Int("due-days", 30, "Days until due")
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		if *number == "" || *customer == "" || *desc == "" {
			fmt.Fprintln(os.Stderr, "Usage: ledgerfile invoice add --number <n> --customer <c> --desc <d> [--qty N] [--cents N] [--due-days N]")
			os.Exit(1)
		}
		cmd.InvoiceAdd(ctx, *number, *customer, *desc, *qty, *cents, *dueDays)
	case "ls":
		cmd.InvoiceList(ctx)
	case "pay":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: ledgerfile invoice pay <id|number>")
			os.Exit(1)
		}
		cmd.InvoicePay(ctx, args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown invoice subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func runItem(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerfile item <add|ls|adjust>")
		os.Exit(1)
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("item add", flag.ExitOnError)
		sku := fs.String("sku", "", "Stock keeping unit (required)")
		name := fs.String("name", "", "Item name (required)")
		stock := fs.Int64("stock", 0, "Initial stock level")
		cents := fs.Int64("cents", 0, "Unit price in cents")
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		if *sku == "" || *name == "" {
			fmt.Fprintln(os.Stderr, "Usage: ledgerfile item add --sku <sku> --name <name> [--stock N] [--cents N]")
			os.Exit(1)
		}
		cmd.ItemAdd(ctx, *sku, *name, *stock, *cents)
	case "ls":
		cmd.ItemList(ctx)
	case "adjust":
		fs := flag.NewFlagSet("item adjust", flag.ExitOnError)
		delta := fs.Int64("delta", 0, "Stock change, positive or negative")
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		if fs.NArg() != 1 || *delta == 0 {
			fmt.Fprintln(os.Stderr, "Usage: ledgerfile item adjust --delta <n> <id|sku>")
			os.Exit(1)
		}
		cmd.ItemAdjust(ctx, fs.Arg(0), *delta)
	default:
		fmt.Fprintf(os.Stderr, "Unknown item subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func runRental(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ledgerfile rental <open|ls|return>")
		os.Exit(1)
	}

	switch args[0] {
	case "open":
		fs := flag.NewFlagSet("rental open", flag.ExitOnError)
		customer := fs.String("customer", "", "Customer ID or name (required)")
		item := fs.String("item", "", "Item ID or SKU (required)")
		days := fs.Int("days", 7, "Rental period in days")
		if err := fs.Parse(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		if *customer == "" || *item == "" {
			fmt.Fprintln(os.Stderr, "Usage: ledgerfile rental open --customer <c> --item <i> [--days N]")
			os.Exit(1)
		}
		cmd.RentalOpen(ctx, *customer, *item, *days)
	case "ls":
		cmd.RentalList(ctx)
	case "return":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: ledgerfile rental return <id>")
			os.Exit(1)
		}
		cmd.RentalReturn(ctx, args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown rental subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("ledgerfile - Password-protected books for a small business")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ledgerfile <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a .ledger file in current directory")
	fmt.Println("  status      Show ledger status (no password needed)")
	fmt.Println("  passwd      Change ledger password")
	fmt.Println("  backup      Copy the encrypted ledger to a file")
	fmt.Println("  restore     Replace the ledger from a backup file")
	fmt.Println("  diff        Compare a backup against current books")
	fmt.Println("  compact     Compact ledger to reclaim disk space")
	fmt.Println("  keyring     Manage the password cached in the OS keyring")
	fmt.Println("  export      Print decrypted books as JSON")
	fmt.Println("  customer    Manage customers (add, ls, rm)")
	fmt.Println("  invoice     Manage invoices (add, ls, pay)")
	fmt.Println("  item        Manage inventory (add, ls, adjust)")
	fmt.Println("  rental      Manage rentals (open, ls, return)")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ledgerfile init                              # Create new ledger")
	fmt.Println("  ledgerfile customer add --name \"Ada Corp\"    # Add a customer")
	fmt.Println("  ledgerfile status                            # Check ledger status")
	fmt.Println("  ledgerfile backup books.bak                  # Make an encrypted backup")
	fmt.Println()
	fmt.Println("Use 'ledgerfile help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("ledgerfile init")
		fmt.Println()
		fmt.Println("Creates a .ledger file in the current directory.")
		fmt.Println("Prompts for a password that will be used for encryption.")
		fmt.Println("The password is not stored anywhere - you must remember it.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  ledgerfile init                  # Create new ledger")
	case "status":
		fmt.Println("ledgerfile status")
		fmt.Println()
		fmt.Println("Shows ledger status including:")
		fmt.Println("  - Record counts (customers, invoices, items, rentals)")
		fmt.Println("  - Last modified time")
		fmt.Println("  - Encryption details")
		fmt.Println()
		fmt.Println("Does not require a password.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  ledgerfile status")
	case "passwd":
		fmt.Println("ledgerfile passwd")
		fmt.Println()
		fmt.Println("Changes the ledger password.")
		fmt.Println("Requires both the current and new passwords.")
		fmt.Println("Re-encrypts the books with a fresh salt and nonce.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  ledgerfile passwd")
	case "backup":
		fmt.Println("ledgerfile backup <file>")
		fmt.Println()
		fmt.Println("Copies the encrypted container to the given file.")
		fmt.Println("The backup stays encrypted with the current password.")
		fmt.Println("Does not require a password.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  ledgerfile backup books.bak")
	case "restore":
		fmt.Println("ledgerfile restore <file>")
		fmt.Println()
		fmt.Println("Replaces the ledger contents from a backup file.")
		fmt.Println("Prompts for the backup's password and fully validates the")
		fmt.Println("backup before anything is overwritten.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  ledgerfile restore books.bak")
	case "diff":
		fmt.Println("ledgerfile diff <file>")
		fmt.Println()
		fmt.Println("Compares a backup file against the current books and prints")
		fmt.Println("a unified diff of the record changes.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  ledgerfile diff books.bak")
	case "compact":
		fmt.Println("ledgerfile compact")
		fmt.Println()
		fmt.Println("Compacts the .ledger database to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'passwd', but can be run")
		fmt.Println("manually if needed.")
		fmt.Println()
		fmt.Println("Does not require a password.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  ledgerfile compact")
	case "keyring":
		fmt.Println("ledgerfile keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the ledger password cached in the OS keyring.")
		fmt.Println("  save      Verify and store the password in the keyring")
		fmt.Println("  delete    Remove the cached password")
		fmt.Println("  status    Show whether a password is cached")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  ledgerfile keyring save")
		fmt.Println("  ledgerfile keyring status")
	case "export":
		fmt.Println("ledgerfile export")
		fmt.Println()
		fmt.Println("Decrypts the books and prints them as JSON on stdout.")
		fmt.Println("Useful for piping into jq or external reporting tools.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  ledgerfile export | jq '.invoices'")
	case "customer":
		fmt.Println("ledgerfile customer add --name <name> [--email ...] [--phone ...] [--address ...]")
		fmt.Println("ledgerfile customer ls")
		fmt.Println("ledgerfile customer rm <id|name>")
		fmt.Println()
		fmt.Println("Manages customer records.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  ledgerfile customer add --name \"Ada Corp\" --email billing@ada.example")
		fmt.Println("  ledgerfile customer ls")
	case "invoice":
		fmt.Println("ledgerfile invoice add --number <n> --customer <c> --desc <d> [--qty N] [--cents N] [--due-days N]")
		fmt.Println("ledgerfile invoice ls")
		fmt.Println("ledgerfile invoice pay <id|number>")
		fmt.Println()
		fmt.Println("Manages invoices. Amounts are integer cents.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  ledgerfile invoice add --number INV-001 --customer \"Ada Corp\" --desc \"Consulting\" --qty 8 --cents 12500")
		fmt.Println("  ledgerfile invoice pay INV-001")
	case "item":
		fmt.Println("ledgerfile item add --sku <sku> --name <name> [--stock N] [--cents N]")
		fmt.Println("ledgerfile item ls")
		fmt.Println("ledgerfile item adjust --delta <n> <id|sku>")
		fmt.Println()
		fmt.Println("Manages inventory items. Stock can never go below zero.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  ledgerfile item add --sku DRILL-01 --name \"Power drill\" --stock 4 --cents 1500")
		fmt.Println("  ledgerfile item adjust --delta -1 DRILL-01")
	case "rental":
		fmt.Println("ledgerfile rental open --customer <c> --item <i> [--days N]")
		fmt.Println("ledgerfile rental ls")
		fmt.Println("ledgerfile rental return <id>")
		fmt.Println()
		fmt.Println("Manages rentals. Opening a rental decrements stock, returning")
		fmt.Println("it restores stock.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  ledgerfile rental open --customer \"Ada Corp\" --item DRILL-01 --days 14")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
