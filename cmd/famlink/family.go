package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/manifoldco/promptui"

	adminapi "github.com/charadev96/famlink/api/admin"
	familyapi "github.com/charadev96/famlink/api/family"
	"github.com/charadev96/famlink/internal/client/domain"
)

func runLogin(a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	token := fs.String("token", "", "identity token issued by an operator")
	email := fs.String("email", "", "issue a token for this account through the admin API")
	fs.Parse(args)

	p, err := a.profile()
	if err != nil {
		return err
	}
	switch {
	case *token != "":
		if err := applyToken(&p, *token); err != nil {
			return err
		}
	case *email != "":
		admin, conn, err := a.client.Admin(p)
		if err != nil {
			return err
		}
		defer conn.Close()
		ctx, cancel := callContext()
		defer cancel()
		user, err := admin.GetUser(ctx, &adminapi.GetUserRequest{Email: *email})
		if err != nil {
			return err
		}
		issued, err := admin.IssueToken(ctx, &adminapi.IssueTokenRequest{Id: user.User.Id})
		if err != nil {
			return err
		}
		if err := applyToken(&p, issued.Token); err != nil {
			return err
		}
	default:
		return errors.New("usage: famlink login -token T | -email E")
	}
	if err := a.profiles.Set(p); err != nil {
		return err
	}
	fmt.Printf("logged in as %s until %s\n", p.Email, p.TokenExpiresAt.Local().Format(time.DateTime))
	return nil
}

// applyToken stores token in p. The claims are read without verification;
// only the server can check the signature.
func applyToken(p *domain.Profile, token string) error {
	claims := struct {
		jwt.RegisteredClaims
		Email string `json:"email"`
	}{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return fmt.Errorf("failed to read token subject: %w", err)
	}
	p.Token = token
	p.UserID = id
	p.Email = claims.Email
	p.TokenExpiresAt = time.Time{}
	if claims.ExpiresAt != nil {
		p.TokenExpiresAt = claims.ExpiresAt.Time
	}
	return nil
}

func (a *app) family() (familyapi.FamilyServiceClient, func(), error) {
	p, err := a.profile()
	if err != nil {
		return nil, nil, err
	}
	fc, conn, err := a.client.Family(p)
	if err != nil {
		return nil, nil, err
	}
	return fc, func() { conn.Close() }, nil
}

func runInvite(a *app, args []string) error {
	fs := flag.NewFlagSet("invite", flag.ExitOnError)
	email := fs.String("email", "", "invitee email address")
	role := fs.String("role", "", "your role in the link: parent or child")
	fs.Parse(args)
	if *email == "" {
		return errors.New("usage: famlink invite -email E [-role parent|child]")
	}
	if *role == "" {
		sel := promptui.Select{
			Label: fmt.Sprintf("You are %s's", *email),
			Items: []string{"parent", "child"},
		}
		_, picked, err := sel.Run()
		if err != nil {
			return err
		}
		*role = picked
	}

	fc, done, err := a.family()
	if err != nil {
		return err
	}
	defer done()
	ctx, cancel := callContext()
	defer cancel()
	res, err := fc.CreateInvitation(ctx, &familyapi.CreateInvitationRequest{
		InviteeEmail: *email,
		InviterRole:  *role,
	})
	if err != nil {
		return err
	}
	fmt.Printf("invited %s, code %s\n", res.Invitation.InviteeEmail, res.Invitation.Code)
	if res.Warning != "" {
		fmt.Println("warning:", res.Warning)
	}
	return nil
}

func printInvitations(invs []*familyapi.Invitation, received bool) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if received {
		fmt.Fprintln(w, "ID\tFROM\tTHEIR ROLE\tCODE\tEXPIRES")
	} else {
		fmt.Fprintln(w, "ID\tTO\tYOUR ROLE\tCODE\tEXPIRES")
	}
	for _, inv := range invs {
		who := inv.InviteeEmail
		if received {
			who = inv.InviterId
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", inv.Id, who, inv.InviterRole, inv.Code, expiry(inv))
	}
	return w.Flush()
}

func expiry(inv *familyapi.Invitation) string {
	switch {
	case inv.Expired:
		return "expired"
	case inv.ExpiresAt == nil:
		return "never"
	}
	return inv.ExpiresAt.AsTime().Local().Format(time.DateTime)
}

func runSent(a *app, args []string) error {
	fc, done, err := a.family()
	if err != nil {
		return err
	}
	defer done()
	ctx, cancel := callContext()
	defer cancel()
	res, err := fc.ListSentInvitations(ctx, &familyapi.ListSentInvitationsRequest{})
	if err != nil {
		return err
	}
	return printInvitations(res.Invitations, false)
}

func runInbox(a *app, args []string) error {
	fs := flag.NewFlagSet("inbox", flag.ExitOnError)
	list := fs.Bool("list", false, "print the invitations without prompting")
	fs.Parse(args)

	fc, done, err := a.family()
	if err != nil {
		return err
	}
	defer done()
	ctx, cancel := callContext()
	res, err := fc.ListReceivedInvitations(ctx, &familyapi.ListReceivedInvitationsRequest{})
	cancel()
	if err != nil {
		return err
	}
	if len(res.Invitations) == 0 {
		fmt.Println("no pending invitations")
		return nil
	}
	if *list {
		return printInvitations(res.Invitations, true)
	}

	items := make([]string, 0, len(res.Invitations))
	for _, inv := range res.Invitations {
		items = append(items, fmt.Sprintf("%s wants to be your %s (code %s, %s)",
			inv.InviterId, inv.InviterRole, inv.Code, expiry(inv)))
	}
	sel := promptui.Select{Label: "Pending invitations", Items: items}
	n, _, err := sel.Run()
	if err != nil {
		return err
	}
	inv := res.Invitations[n]

	action := promptui.Select{Label: "Respond", Items: []string{"accept", "decline", "later"}}
	_, picked, err := action.Run()
	if err != nil {
		return err
	}
	ctx, cancel = callContext()
	defer cancel()
	switch picked {
	case "accept":
		rel, err := fc.AcceptInvitation(ctx, &familyapi.AcceptInvitationRequest{Id: inv.Id})
		if err != nil {
			return err
		}
		fmt.Printf("linked, relationship %s\n", rel.Relationship.Id)
	case "decline":
		if _, err := fc.DeclineInvitation(ctx, &familyapi.DeclineInvitationRequest{Id: inv.Id}); err != nil {
			return err
		}
		fmt.Println("declined")
	}
	return nil
}

func runAccept(a *app, args []string) error {
	fs := flag.NewFlagSet("accept", flag.ExitOnError)
	id := fs.String("id", "", "invitation id")
	fs.Parse(args)
	req := &familyapi.AcceptInvitationRequest{Id: *id}
	if req.Id == "" {
		if fs.NArg() != 1 {
			return errors.New("usage: famlink accept CODE | accept -id ID")
		}
		req.Code = strings.TrimSpace(fs.Arg(0))
	}

	fc, done, err := a.family()
	if err != nil {
		return err
	}
	defer done()
	ctx, cancel := callContext()
	defer cancel()
	res, err := fc.AcceptInvitation(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("linked, relationship %s\n", res.Relationship.Id)
	return nil
}

func runDecline(a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: famlink decline ID")
	}
	fc, done, err := a.family()
	if err != nil {
		return err
	}
	defer done()
	ctx, cancel := callContext()
	defer cancel()
	if _, err := fc.DeclineInvitation(ctx, &familyapi.DeclineInvitationRequest{Id: args[0]}); err != nil {
		return err
	}
	fmt.Println("declined")
	return nil
}

func runMembers(a *app, args []string) error {
	fc, done, err := a.family()
	if err != nil {
		return err
	}
	defer done()
	ctx, cancel := callContext()
	defer cancel()
	res, err := fc.ListFamilyMembers(ctx, &familyapi.ListFamilyMembersRequest{})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tROLE\tSINCE")
	for _, m := range res.Members {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.DisplayName, m.Email, m.Role, m.Since.AsTime().Local().Format(time.DateOnly))
	}
	return w.Flush()
}
