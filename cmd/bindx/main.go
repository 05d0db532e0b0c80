// Command bindx is the BIND bundle workbench: build a Bundle of insurance
// resources, validate it against the embedded schemas, and exchange it as
// a signed, encrypted one-time payload.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"bindx.dev/bindx/archive"
	"bindx.dev/bindx/bundle"
	"bindx.dev/bindx/exchange"
	"bindx.dev/bindx/keys"
	"bindx.dev/bindx/schema"
	"bindx.dev/bindx/storage"
	"bindx.dev/bindx/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "bundle":
		return cmdBundle(args[1:], out, errOut)
	case "validate":
		return cmdValidate(args[1:], out, errOut)
	case "send":
		return cmdSend(args[1:], out, errOut)
	case "link":
		return cmdLink(args[1:], out, errOut)
	case "history":
		return cmdHistory(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "bindx: BIND bundle builder and one-time exchange")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  bindx key init [--issuer <url>] [--force]")
	fmt.Fprintln(w, "  bindx key import --file <jwk.json> [--issuer <url>]")
	fmt.Fprintln(w, "  bindx key show [--private]")
	fmt.Fprintln(w, "  bindx bundle add <resourceType>")
	fmt.Fprintln(w, "  bindx bundle list")
	fmt.Fprintln(w, "  bindx bundle remove <index>")
	fmt.Fprintln(w, "  bindx bundle clear")
	fmt.Fprintln(w, "  bindx bundle import <file>")
	fmt.Fprintln(w, "  bindx bundle export")
	fmt.Fprintln(w, "  bindx bundle summary")
	fmt.Fprintln(w, "  bindx validate")
	fmt.Fprintln(w, "  bindx send [--passcode <code>] [--label <text>] [--exp <seconds>] [--no-archive]")
	fmt.Fprintln(w, "  bindx link decode <bindx://...>")
	fmt.Fprintln(w, "  bindx history")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  BINDX_HOME           state directory (default ~/.bindx)")
	fmt.Fprintln(w, "  BINDX_EXCHANGE_URL   exchange endpoint override")
	fmt.Fprintln(w, "  BINDX_DIRECTORY_URL  key directory override")
}

func homeDir(errOut io.Writer) (string, bool) {
	if dir := os.Getenv("BINDX_HOME"); dir != "" {
		return dir, true
	}
	dir, err := storage.DefaultHome()
	if err != nil {
		fmt.Fprintf(errOut, "resolving home: %v\n", err)
		return "", false
	}
	return dir, true
}

func openSlots(errOut io.Writer) (storage.Slots, bool) {
	dir, ok := homeDir(errOut)
	if !ok {
		return nil, false
	}
	slots, err := localfs.New(dir)
	if err != nil {
		fmt.Fprintf(errOut, "opening state directory: %v\n", err)
		return nil, false
	}
	return slots, true
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: bindx key <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: init, import, show")
		return 2
	}
	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("key init", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var issuer string
		var force bool
		fs.StringVar(&issuer, "issuer", "", "Issuer URL recorded in signed tokens")
		fs.BoolVar(&force, "force", false, "Replace an existing key pair")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		slots, ok := openSlots(errOut)
		if !ok {
			return 1
		}
		if _, exists := keys.LoadPair(slots); exists && !force {
			fmt.Fprintln(errOut, "a key pair already exists (use --force to replace)")
			return 1
		}
		pair, err := keys.Generate()
		if err != nil {
			fmt.Fprintf(errOut, "generating key: %v\n", err)
			return 1
		}
		if err := keys.SavePair(slots, pair); err != nil {
			fmt.Fprintf(errOut, "saving key: %v\n", err)
			return 1
		}
		if issuer != "" {
			if err := keys.SaveIssuer(slots, issuer); err != nil {
				fmt.Fprintf(errOut, "saving issuer: %v\n", err)
				return 1
			}
		}
		fmt.Fprintf(out, "kid: %s\n", pair.KID)
		return 0
	case "import":
		fs := flag.NewFlagSet("key import", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var file string
		var issuer string
		fs.StringVar(&file, "file", "", "Private JWK file (EC P-256)")
		fs.StringVar(&issuer, "issuer", "", "Issuer URL recorded in signed tokens")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if file == "" {
			fmt.Fprintln(errOut, "usage: bindx key import --file <jwk.json> [--issuer <url>]")
			return 2
		}
		raw, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(errOut, "read key file: %v\n", err)
			return 1
		}
		pair, err := keys.Import(raw)
		if err != nil {
			fmt.Fprintf(errOut, "import key: %v\n", err)
			return 1
		}
		slots, ok := openSlots(errOut)
		if !ok {
			return 1
		}
		if err := keys.SavePair(slots, pair); err != nil {
			fmt.Fprintf(errOut, "saving key: %v\n", err)
			return 1
		}
		if issuer != "" {
			if err := keys.SaveIssuer(slots, issuer); err != nil {
				fmt.Fprintf(errOut, "saving issuer: %v\n", err)
				return 1
			}
		}
		fmt.Fprintf(out, "kid: %s\n", pair.KID)
		return 0
	case "show":
		fs := flag.NewFlagSet("key show", flag.ContinueOnError)
		fs.SetOutput(errOut)
		var private bool
		fs.BoolVar(&private, "private", false, "Print the private JWK instead of the public one")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		slots, ok := openSlots(errOut)
		if !ok {
			return 1
		}
		pair, exists := keys.LoadPair(slots)
		if !exists {
			fmt.Fprintln(errOut, "no key pair (run: bindx key init)")
			return 1
		}
		jwk := pair.PublicKey
		if private {
			jwk = pair.PrivateKey
		}
		raw, err := jwk.MarshalJSON()
		if err != nil {
			fmt.Fprintf(errOut, "encoding key: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "kid: %s\n", pair.KID)
		if issuer := keys.LoadIssuer(slots); issuer != "" {
			fmt.Fprintf(out, "issuer: %s\n", issuer)
		}
		fmt.Fprintln(out, string(raw))
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}

func openBundleStore(errOut io.Writer) (*bundle.Store, bool) {
	slots, ok := openSlots(errOut)
	if !ok {
		return nil, false
	}
	return bundle.Open(slots), true
}

func cmdBundle(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: bindx bundle <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: add, list, remove, clear, import, export, summary")
		return 2
	}
	switch args[0] {
	case "add":
		if len(args) != 2 {
			fmt.Fprintln(errOut, "usage: bindx bundle add <resourceType>")
			return 2
		}
		reg := schema.MustLoadRegistry()
		name := args[1]
		if !reg.IsResource(name) {
			fmt.Fprintf(errOut, "unknown resource type %q (available: %v)\n", name, reg.ResourceNames())
			return 1
		}
		doc, _ := reg.Schema(name)
		root, ok := schema.ResolveRoot(doc)
		if !ok {
			fmt.Fprintf(errOut, "schema for %q has no resolvable root\n", name)
			return 1
		}
		resource := schema.InitialValues(root.Definition, doc)
		store, ok := openBundleStore(errOut)
		if !ok {
			return 1
		}
		b, err := store.Dispatch(bundle.Add{Resource: resource})
		if err != nil {
			fmt.Fprintf(errOut, "saving bundle: %v\n", err)
			return 1
		}
		entry := b.Entry[len(b.Entry)-1]
		fmt.Fprintf(out, "added %s\n", entry.FullURL)
		return 0
	case "list":
		store, ok := openBundleStore(errOut)
		if !ok {
			return 1
		}
		b := store.Current()
		if len(b.Entry) == 0 {
			fmt.Fprintln(out, "bundle is empty")
			return 0
		}
		for i, e := range b.Entry {
			ref := bundle.Ref(e.Resource)
			fmt.Fprintf(out, "%3d  %-40s %s\n", i, ref.Reference, ref.Display)
		}
		return 0
	case "remove":
		if len(args) != 2 {
			fmt.Fprintln(errOut, "usage: bindx bundle remove <index>")
			return 2
		}
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(errOut, "bad index %q\n", args[1])
			return 2
		}
		store, ok := openBundleStore(errOut)
		if !ok {
			return 1
		}
		before := len(store.Current().Entry)
		b, err := store.Dispatch(bundle.Remove{Index: idx})
		if err != nil {
			fmt.Fprintf(errOut, "saving bundle: %v\n", err)
			return 1
		}
		if len(b.Entry) == before {
			fmt.Fprintf(errOut, "no entry at index %d\n", idx)
			return 1
		}
		fmt.Fprintf(out, "removed entry %d (%d remaining)\n", idx, len(b.Entry))
		return 0
	case "clear":
		store, ok := openBundleStore(errOut)
		if !ok {
			return 1
		}
		if _, err := store.Dispatch(bundle.Clear{}); err != nil {
			fmt.Fprintf(errOut, "saving bundle: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, "bundle cleared")
		return 0
	case "import":
		if len(args) != 2 {
			fmt.Fprintln(errOut, "usage: bindx bundle import <file>")
			return 2
		}
		raw, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintf(errOut, "read bundle: %v\n", err)
			return 1
		}
		imported, err := bundle.Parse(raw)
		if err != nil {
			fmt.Fprintf(errOut, "invalid bundle: %v\n", err)
			return 1
		}
		store, ok := openBundleStore(errOut)
		if !ok {
			return 1
		}
		b, err := store.Dispatch(bundle.Import{Bundle: imported})
		if err != nil {
			fmt.Fprintf(errOut, "saving bundle: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "imported %d entries\n", len(b.Entry))
		return 0
	case "export":
		store, ok := openBundleStore(errOut)
		if !ok {
			return 1
		}
		raw, err := json.MarshalIndent(store.Current(), "", "  ")
		if err != nil {
			fmt.Fprintf(errOut, "encoding bundle: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, string(raw))
		return 0
	case "summary":
		store, ok := openBundleStore(errOut)
		if !ok {
			return 1
		}
		counts := bundle.Summary(store.Current())
		if len(counts) == 0 {
			fmt.Fprintln(out, "bundle is empty")
			return 0
		}
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(out, "%-20s %d\n", t, counts[t])
		}
		return 0
	default:
		fmt.Fprintf(errOut, "unknown bundle subcommand: %s\n", args[0])
		return 2
	}
}

func cmdValidate(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	store, ok := openBundleStore(errOut)
	if !ok {
		return 1
	}
	raw, err := store.Current().AsMap()
	if err != nil {
		fmt.Fprintf(errOut, "encoding bundle: %v\n", err)
		return 1
	}
	warnings := bundle.Validate(raw, schema.MustLoadRegistry())
	if len(warnings) == 0 {
		fmt.Fprintln(out, "OK")
		return 0
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "%s: %s\n", w.Path, w.Message)
	}
	fmt.Fprintf(out, "%d warning(s)\n", len(warnings))
	return 1
}

func cmdSend(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var passcode, label string
	var exp int64
	var noArchive bool
	fs.StringVar(&passcode, "passcode", "", "Passcode required to retrieve the payload")
	fs.StringVar(&label, "label", "", "Human label carried in the link")
	fs.Int64Var(&exp, "exp", 0, "Requested lifetime in seconds (0 = exchange default)")
	fs.BoolVar(&noArchive, "no-archive", false, "Skip the local artifact archive")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	slots, ok := openSlots(errOut)
	if !ok {
		return 1
	}
	pair, exists := keys.LoadPair(slots)
	if !exists {
		fmt.Fprintln(errOut, "no key pair (run: bindx key init)")
		return 1
	}
	issuer := keys.LoadIssuer(slots)
	if issuer == "" {
		fmt.Fprintln(errOut, "no issuer configured (run: bindx key init --issuer <url>)")
		return 1
	}

	store := bundle.Open(slots)
	b := store.Current()
	if len(b.Entry) == 0 {
		fmt.Fprintln(errOut, "bundle is empty; nothing to send")
		return 1
	}
	payload, err := b.AsMap()
	if err != nil {
		fmt.Fprintf(errOut, "encoding bundle: %v\n", err)
		return 1
	}

	p := &exchange.Pipeline{
		Signer: exchange.NewSigner(pair.PrivateKey, pair.KID, issuer),
		Client: exchange.NewClient(os.Getenv("BINDX_EXCHANGE_URL")),
	}
	if !noArchive {
		dir, ok := homeDir(errOut)
		if !ok {
			return 1
		}
		arch, err := archive.Open(filepath.Join(dir, "archive"))
		if err != nil {
			fmt.Fprintf(errOut, "opening archive: %v\n", err)
			return 1
		}
		p.Archive = arch
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	res, err := p.Send(ctx, payload, exchange.SendOptions{Passcode: passcode, Label: label, Exp: exp})
	if err != nil {
		fmt.Fprintf(errOut, "send: %v\n", err)
		return 1
	}

	fmt.Fprintln(out, res.Link)
	fmt.Fprintf(errOut, "url: %s\n", res.Response.URL)
	fmt.Fprintf(errOut, "expires: %s\n", time.UnixMilli(res.Response.Exp).UTC().Format(time.RFC3339))
	fmt.Fprintf(errOut, "trusted: %v\n", res.Response.Trusted)
	if res.Response.Passcode != "" {
		fmt.Fprintf(errOut, "passcode: %s\n", res.Response.Passcode)
	}
	return 0
}

func cmdLink(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 2 || args[0] != "decode" {
		fmt.Fprintln(errOut, "usage: bindx link decode <bindx://...>")
		return 2
	}
	link, err := exchange.ParseLink(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "invalid link: %v\n", err)
		return 1
	}
	raw, err := json.MarshalIndent(link, "", "  ")
	if err != nil {
		fmt.Fprintf(errOut, "encoding link: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, string(raw))
	return 0
}

func cmdHistory(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	dir, ok := homeDir(errOut)
	if !ok {
		return 1
	}
	arch, err := archive.Open(filepath.Join(dir, "archive"))
	if err != nil {
		fmt.Fprintf(errOut, "opening archive: %v\n", err)
		return 1
	}
	recs, err := arch.Records()
	if err != nil {
		fmt.Fprintf(errOut, "reading history: %v\n", err)
		return 1
	}
	if len(recs) == 0 {
		fmt.Fprintln(out, "no sends recorded")
		return 0
	}
	for _, rec := range recs {
		trust := "untrusted"
		if rec.Trusted {
			trust = "trusted"
		}
		label := rec.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(out, "%s  %-9s  %-20s %s\n",
			rec.CreatedAt.UTC().Format(time.RFC3339), trust, label, rec.URL)
	}
	return 0
}
