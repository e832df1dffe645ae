package main

import (
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"

	"github.com/charadev96/famlink/internal/client/domain"
)

func runProfile(a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: famlink profile add|use|list|remove")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("profile add", flag.ExitOnError)
		name := fs.String("name", "default", "profile name")
		family := fs.String("family", "localhost:7400", "family API address")
		admin := fs.String("admin", "", "admin API address")
		insecure := fs.Bool("insecure", false, "connect to the family API without TLS")
		fs.Parse(args[1:])
		p, err := a.profiles.Get(*name)
		if err != nil && !errors.Is(err, domain.ErrProfileNotExist) {
			return err
		}
		p.Name = *name
		p.FamilyAddress = *family
		p.AdminAddress = *admin
		p.Insecure = *insecure
		if err := a.profiles.Set(p); err != nil {
			return err
		}
		fmt.Printf("saved profile %s\n", p.Name)
		return nil
	case "use":
		if len(args) != 2 {
			return errors.New("usage: famlink profile use NAME")
		}
		return a.profiles.SetCurrent(args[1])
	case "remove":
		if len(args) != 2 {
			return errors.New("usage: famlink profile remove NAME")
		}
		return a.profiles.Delete(args[1])
	case "list":
		profiles, err := a.profiles.List()
		if err != nil {
			return err
		}
		current, _ := a.profiles.Current()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\tNAME\tFAMILY\tADMIN\tACCOUNT")
		for _, p := range profiles {
			mark := ""
			if p.Name == current {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mark, p.Name, p.FamilyAddress, p.AdminAddress, p.Email)
		}
		return w.Flush()
	}
	return fmt.Errorf("unknown profile command %q", args[0])
}

func confirmCertificate(cert *x509.Certificate) bool {
	sum := sha256.Sum256(cert.Raw)
	fmt.Printf("server certificate for %s\n  fingerprint %x\n", cert.Subject.CommonName, sum)
	prompt := promptui.Prompt{
		Label:     "Trust this server",
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}
