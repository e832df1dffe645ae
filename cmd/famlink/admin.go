package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	adminapi "github.com/charadev96/famlink/api/admin"
)

func runAdmin(a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: famlink admin create-user|user|users|delete-user|token|unlink")
	}
	p, err := a.profile()
	if err != nil {
		return err
	}
	admin, conn, err := a.client.Admin(p)
	if err != nil {
		return err
	}
	defer conn.Close()
	ctx, cancel := callContext()
	defer cancel()

	switch args[0] {
	case "create-user":
		fs := flag.NewFlagSet("admin create-user", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		name := fs.String("name", "", "display name")
		fs.Parse(args[1:])
		res, err := admin.CreateUser(ctx, &adminapi.CreateUserRequest{Email: *email, DisplayName: *name})
		if err != nil {
			return err
		}
		fmt.Println(res.Id)
	case "user":
		if len(args) != 2 {
			return errors.New("usage: famlink admin user ID|EMAIL")
		}
		req := &adminapi.GetUserRequest{Id: args[1]}
		if looksLikeEmail(args[1]) {
			req = &adminapi.GetUserRequest{Email: args[1]}
		}
		res, err := admin.GetUser(ctx, req)
		if err != nil {
			return err
		}
		return printUsers([]*adminapi.User{res.User})
	case "users":
		fs := flag.NewFlagSet("admin users", flag.ExitOnError)
		limit := fs.Int("limit", 50, "page size")
		cursor := fs.String("cursor", "", "continue after this id")
		fs.Parse(args[1:])
		res, err := admin.ListUsers(ctx, &adminapi.ListUsersRequest{Limit: int32(*limit), Cursor: *cursor})
		if err != nil {
			return err
		}
		if err := printUsers(res.Users); err != nil {
			return err
		}
		if res.Cursor != "" {
			fmt.Printf("\nnext page: famlink admin users -cursor %s\n", res.Cursor)
		}
	case "delete-user":
		if len(args) != 2 {
			return errors.New("usage: famlink admin delete-user ID")
		}
		if _, err := admin.DeleteUser(ctx, &adminapi.DeleteUserRequest{Id: args[1]}); err != nil {
			return err
		}
		fmt.Println("deleted")
	case "token":
		if len(args) != 2 {
			return errors.New("usage: famlink admin token ID")
		}
		res, err := admin.IssueToken(ctx, &adminapi.IssueTokenRequest{Id: args[1]})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "expires %s\n", res.ExpiresAt.AsTime().Local().Format(time.DateTime))
		fmt.Println(res.Token)
	case "unlink":
		if len(args) != 2 {
			return errors.New("usage: famlink admin unlink RELATIONSHIP_ID")
		}
		if _, err := admin.UnlinkRelationship(ctx, &adminapi.UnlinkRelationshipRequest{Id: args[1]}); err != nil {
			return err
		}
		fmt.Println("unlinked")
	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
	return nil
}

func looksLikeEmail(s string) bool {
	for _, r := range s {
		if r == '@' {
			return true
		}
	}
	return false
}

func printUsers(users []*adminapi.User) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Id, u.Email, u.DisplayName, u.CreatedAt.AsTime().Local().Format(time.DateTime))
	}
	return w.Flush()
}
