package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Skotchmaster/food_client/internal/models"
	"github.com/Skotchmaster/food_client/internal/order"
)

var commands = map[string]command{
	"register":    {"-username U -email E -password P [-name N] [-phone P]", cmdRegister},
	"login":       {"-id USERNAME_OR_EMAIL -password P", cmdLogin},
	"logout":      {"", cmdLogout},
	"whoami":      {"", cmdWhoami},
	"refresh":     {"", cmdRefresh},
	"profile":     {"[-name N] [-phone P] [-address A]", cmdProfile},
	"restaurants": {"[-q TERM]", cmdRestaurants},
	"restaurant":  {"ID", cmdRestaurant},
	"cart":        {"", cmdCart},
	"add":         {"-dish ID [-qty N]", cmdAdd},
	"set-qty":     {"-item ID -qty N", cmdSetQty},
	"remove":      {"-item ID", cmdRemove},
	"clear":       {"", cmdClear},
	"checkout":    {"-address A [-restaurant ID] [-notes N]", cmdCheckout},
	"orders":      {"", cmdOrders},
	"order":       {"ID", cmdOrder},
	"cancel":      {"ID", cmdCancel},
	"reviews":     {"RESTAURANT_ID", cmdReviews},
	"review":      {"-restaurant ID -rating 1..5 [-comment C]", cmdReview},
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// idArg reads the single positional id argument.
func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, errUsage
	}
	return id, nil
}

// flagged returns a pointer to v when the flag was set on the command line.
func flagged(fs *flag.FlagSet, name, v string) *string {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	if !set {
		return nil
	}
	return &v
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register")
	var req models.RegisterRequest
	fs.StringVar(&req.Username, "username", "", "")
	fs.StringVar(&req.Email, "email", "", "")
	fs.StringVar(&req.Password, "password", "", "")
	fs.StringVar(&req.FullName, "name", "", "")
	fs.StringVar(&req.PhoneNumber, "phone", "", "")
	if err := parse(fs, args); err != nil {
		return err
	}

	resp, err := a.session.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (user %d). Log in to continue.\n", resp.Message, resp.UserID)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	id := fs.String("id", "", "")
	password := fs.String("password", "", "")
	if err := parse(fs, args); err != nil {
		return err
	}

	u, err := a.session.Login(ctx, *id, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s\n", u.Username)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func cmdWhoami(_ context.Context, a *app, _ []string) error {
	s := a.session.Snapshot()
	if s.User == nil {
		fmt.Fprintln(a.out, "not logged in")
		return nil
	}
	printUser(a.out, s.User)
	if exp, ok := a.session.TokenExpiry(); ok {
		fmt.Fprintf(a.out, "token expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func cmdRefresh(ctx context.Context, a *app, _ []string) error {
	if err := a.session.RefreshUserInfo(ctx); err != nil {
		return err
	}
	return cmdWhoami(ctx, a, nil)
}

func cmdProfile(ctx context.Context, a *app, args []string) error {
	fs := newFlags("profile")
	name := fs.String("name", "", "")
	phone := fs.String("phone", "", "")
	address := fs.String("address", "", "")
	if err := parse(fs, args); err != nil {
		return err
	}

	u, err := a.session.UpdateProfile(ctx, models.ProfileUpdate{
		FullName:    flagged(fs, "name", *name),
		PhoneNumber: flagged(fs, "phone", *phone),
		Address:     flagged(fs, "address", *address),
	})
	if err != nil {
		return err
	}
	printUser(a.out, u)
	return nil
}

func cmdRestaurants(ctx context.Context, a *app, args []string) error {
	fs := newFlags("restaurants")
	q := fs.String("q", "", "")
	if err := parse(fs, args); err != nil {
		return err
	}

	list, err := a.catalog.Restaurants(ctx, *q)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "no restaurants found")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRATING\tADDRESS")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\n", r.ID, r.Name, r.Rating, r.Address)
	}
	return tw.Flush()
}

func cmdRestaurant(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	r, err := a.catalog.Restaurant(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%.1f)\n%s\n", r.Name, r.Rating, r.Description)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, m := range r.Menus {
		fmt.Fprintf(tw, "\n[%s]\t\t\n", m.Name)
		for _, d := range m.Dishes {
			fmt.Fprintf(tw, "%d\t%s\t%.2f\n", d.ID, d.Name, d.Price)
		}
	}
	return tw.Flush()
}

func cmdCart(ctx context.Context, a *app, _ []string) error {
	c, err := a.carts.GetCart(ctx)
	if err != nil {
		return err
	}
	return printCart(a.out, c)
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("add")
	dish := fs.Int64("dish", 0, "")
	qty := fs.Int("qty", 1, "")
	if err := parse(fs, args); err != nil {
		return err
	}
	c, err := a.carts.AddItem(ctx, *dish, *qty)
	if err != nil {
		return err
	}
	return printCart(a.out, c)
}

func cmdSetQty(ctx context.Context, a *app, args []string) error {
	fs := newFlags("set-qty")
	item := fs.Int64("item", 0, "")
	qty := fs.Int("qty", 0, "")
	if err := parse(fs, args); err != nil {
		return err
	}
	c, err := a.carts.SetItemQuantity(ctx, *item, *qty)
	if err != nil {
		return err
	}
	return printCart(a.out, c)
}

func cmdRemove(ctx context.Context, a *app, args []string) error {
	fs := newFlags("remove")
	item := fs.Int64("item", 0, "")
	if err := parse(fs, args); err != nil {
		return err
	}
	c, err := a.carts.RemoveItem(ctx, *item)
	if err != nil {
		return err
	}
	return printCart(a.out, c)
}

func cmdClear(ctx context.Context, a *app, _ []string) error {
	c, err := a.carts.Clear(ctx)
	if err != nil {
		return err
	}
	return printCart(a.out, c)
}

func cmdCheckout(ctx context.Context, a *app, args []string) error {
	fs := newFlags("checkout")
	var req order.CheckoutRequest
	fs.StringVar(&req.ShippingAddress, "address", "", "")
	fs.Int64Var(&req.RestaurantID, "restaurant", 0, "")
	fs.StringVar(&req.Notes, "notes", "", "")
	if err := parse(fs, args); err != nil {
		return err
	}
	if req.ShippingAddress == "" {
		if u := a.session.Snapshot().User; u != nil {
			req.ShippingAddress = u.Address
		}
	}

	o, err := a.orders.Checkout(ctx, req)
	if err != nil {
		return err
	}
	printOrder(a.out, o)
	return nil
}

func cmdOrders(ctx context.Context, a *app, _ []string) error {
	list, err := a.orders.MyOrders(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "no orders yet")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tTOTAL")
	for _, o := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\n", o.ID, o.OrderDate.Local().Format("2006-01-02 15:04"), o.Status, o.TotalAmount)
	}
	return tw.Flush()
}

func cmdOrder(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	o, err := a.orders.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	printOrder(a.out, o)
	return nil
}

func cmdCancel(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	o, err := a.orders.CancelOrderByID(ctx, id)
	if err != nil {
		return err
	}
	printOrder(a.out, o)
	return nil
}

func cmdReviews(ctx context.Context, a *app, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	list, err := a.reviews.ByRestaurant(ctx, id)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "no reviews yet")
		return nil
	}
	for _, r := range list {
		fmt.Fprintf(a.out, "%s %s %s\n", strings.Repeat("*", r.Rating), r.Username, r.CreatedAt.Local().Format("2006-01-02"))
		if r.Comment != "" {
			fmt.Fprintf(a.out, "  %s\n", r.Comment)
		}
	}
	return nil
}

func cmdReview(ctx context.Context, a *app, args []string) error {
	fs := newFlags("review")
	var in models.NewReview
	fs.Int64Var(&in.RestaurantID, "restaurant", 0, "")
	fs.IntVar(&in.Rating, "rating", 0, "")
	fs.StringVar(&in.Comment, "comment", "", "")
	if err := parse(fs, args); err != nil {
		return err
	}
	r, err := a.reviews.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "review %d saved\n", r.ID)
	return nil
}

func printUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "%s <%s> id=%d roles=%s\n", u.Username, u.Email, u.UserID, strings.Join(u.Roles, ","))
	if u.FullName != "" {
		fmt.Fprintf(w, "name:    %s\n", u.FullName)
	}
	if u.PhoneNumber != "" {
		fmt.Fprintf(w, "phone:   %s\n", u.PhoneNumber)
	}
	if u.Address != "" {
		fmt.Fprintf(w, "address: %s\n", u.Address)
	}
}

func printCart(w io.Writer, c *models.Cart) error {
	if c.Empty() {
		fmt.Fprintln(w, "cart is empty")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tDISH\tQTY\tPRICE\tTOTAL")
	for _, it := range c.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.2f\t%.2f\n", it.ID, it.DishName, it.Quantity, it.UnitPrice, it.TotalItemPrice)
	}
	fmt.Fprintf(tw, "\t\t\t\t%.2f\n", c.TotalPrice)
	return tw.Flush()
}

func printOrder(w io.Writer, o *models.Order) {
	fmt.Fprintf(w, "order %d  %s  %s\n", o.ID, o.Status, o.OrderDate.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "to: %s\n", o.ShippingAddress)
	if o.Notes != "" {
		fmt.Fprintf(w, "notes: %s\n", o.Notes)
	}
	for _, it := range o.OrderItems {
		fmt.Fprintf(w, "  %dx %s  %.2f\n", it.Quantity, it.DishName, it.TotalItemPrice)
	}
	fmt.Fprintf(w, "total: %.2f\n", o.TotalAmount)
}
