package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
)

type record = map[string]any

func handleAuth(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: sitebook auth <register|login|logout|who>")
		return nil
	}
	switch args[0] {
	case "register":
		return registerUser(args[1:])
	case "login":
		return loginUser(args[1:])
	case "logout":
		_ = os.Remove(tokenFile())
		fmt.Println("✓ Logged out")
		return nil
	case "who":
		return whoAmI()
	default:
		return fmt.Errorf("unknown auth command: %s", args[0])
	}
}

func registerUser(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	email := fs.String("email", "", "email (optional)")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	company := fs.String("company", "", "company name")
	companyNumber := fs.String("company-number", "", "company registration number")
	_ = fs.Parse(args)

	var sess record
	err := newClient().send(http.MethodPost, "/auth/register", map[string]string{
		"username":       *username,
		"password":       *password,
		"email":          *email,
		"full_name":      *name,
		"phone_number":   *phone,
		"company_name":   *company,
		"company_number": *companyNumber,
	}, &sess)
	if err != nil {
		return err
	}
	if err := saveSession(sess); err != nil {
		return err
	}
	fmt.Printf("✓ Registered and logged in as %s\n", *username)
	return nil
}

func loginUser(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	login := fs.String("login", "", "username or email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	if *login == "" || *password == "" {
		fs.PrintDefaults()
		return errors.New("login and password are required")
	}

	var sess record
	err := newClient().send(http.MethodPost, "/auth/login", map[string]string{
		"username_or_email": *login,
		"password":          *password,
	}, &sess)
	if err != nil {
		return err
	}
	if err := saveSession(sess); err != nil {
		return err
	}
	fmt.Printf("✓ Logged in as %s\n", *login)
	return nil
}

func saveSession(sess record) error {
	token, _ := sess["access_token"].(string)
	if token == "" {
		return errors.New("server returned no token")
	}
	return saveToken(token)
}

func whoAmI() error {
	if loadToken() == "" {
		fmt.Println("Not logged in")
		return nil
	}
	var u record
	if err := newClient().get("/auth/me", nil, &u); err != nil {
		return err
	}
	w := newTable()
	for _, k := range []string{"username", "full_name", "email", "company_name", "company_number", "phone_number"} {
		fmt.Fprintf(w, "%s\t%v\n", k, value(u, k))
	}
	return w.Flush()
}

func handleProject(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: sitebook project <list|create|show|status>")
		return nil
	}
	c := newClient()
	switch args[0] {
	case "list":
		var projects []record
		if err := c.get("/projects", nil, &projects); err != nil {
			return err
		}
		return printTable(projects, "id", "name", "type", "status", "progress_percentage", "total_amount")
	case "create":
		body, err := projectFlags(args[1:])
		if err != nil {
			return err
		}
		var p record
		if err := c.send(http.MethodPost, "/projects", body, &p); err != nil {
			return err
		}
		fmt.Printf("✓ Project created: %v\n", p["id"])
		return nil
	case "show":
		if len(args) < 2 {
			return errors.New("usage: sitebook project show <project-id>")
		}
		var p record
		if err := c.get("/projects/"+args[1], nil, &p); err != nil {
			return err
		}
		w := newTable()
		for _, k := range []string{"id", "name", "type", "status", "address", "contact_phone1", "total_amount", "progress_percentage", "created_at"} {
			fmt.Fprintf(w, "%s\t%v\n", k, value(p, k))
		}
		if sections, ok := p["work_sections"].([]any); ok {
			for _, s := range sections {
				if m, ok := s.(map[string]any); ok {
					fmt.Fprintf(w, "section\t%v (%v%%)\n", m["name"], m["percentage"])
				}
			}
		}
		return w.Flush()
	case "status":
		return projectStatus(c, args[1:])
	default:
		return fmt.Errorf("unknown project command: %s", args[0])
	}
}

// projectStatus changes a project's status by replacing it with itself
func projectStatus(c *client, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: sitebook project status <project-id> <active|completed|cancelled>")
	}
	var p record
	if err := c.get("/projects/"+args[0], nil, &p); err != nil {
		return err
	}
	p["status"] = args[1]
	var out record
	if err := c.send(http.MethodPut, "/projects/"+args[0], p, &out); err != nil {
		return err
	}
	fmt.Printf("✓ Project %v is now %v\n", out["id"], out["status"])
	return nil
}

func projectFlags(args []string) (record, error) {
	fs := flag.NewFlagSet("project create", flag.ExitOnError)
	name := fs.String("name", "", "project name")
	typ := fs.String("type", "building", "building or street")
	address := fs.String("address", "", "site address")
	phone := fs.String("phone", "", "primary contact phone")
	total := fs.Float64("total", 0, "contract amount")
	sections := fs.String("sections", "", "work sections as name:percent,name:percent")
	floors := fs.Int("floors", 0, "floors (building)")
	length := fs.Float64("length", 0, "street length (street)")
	_ = fs.Parse(args)

	ws, err := parseSections(*sections)
	if err != nil {
		return nil, err
	}
	body := record{
		"name":           *name,
		"type":           *typ,
		"address":        *address,
		"contact_phone1": *phone,
		"total_amount":   *total,
		"work_sections":  ws,
	}
	if *floors > 0 {
		body["floors_count"] = *floors
	}
	if *length > 0 {
		body["street_length"] = *length
	}
	return body, nil
}

func parseSections(s string) ([]record, error) {
	out := []record{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		name, pct, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid section %q, want name:percent", part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentage in %q: %w", part, err)
		}
		out = append(out, record{"name": strings.TrimSpace(name), "percentage": v})
	}
	return out, nil
}

// recordKinds maps CLI nouns to their collection path and list columns
var recordKinds = map[string]struct {
	path    string
	columns []string
}{
	"worker":  {"/workers", []string{"id", "name", "payment_type", "payment_amount"}},
	"expense": {"/expenses", []string{"id", "project_id", "type", "amount", "date"}},
	"income":  {"/incomes", []string{"id", "project_id", "amount_before_tax", "amount_with_tax", "date"}},
	"workday": {"/workdays", []string{"id", "project_id", "work_section", "work_percentage", "workers", "date"}},
}

func handleRecord(kind string, args []string) error {
	if len(args) < 1 {
		fmt.Printf("Usage: sitebook %s <list|add>\n", kind)
		return nil
	}
	k := recordKinds[kind]
	c := newClient()
	switch args[0] {
	case "list":
		var recs []record
		if err := c.get(k.path, nil, &recs); err != nil {
			return err
		}
		return printTable(recs, k.columns...)
	case "add":
		body, err := recordFlags(kind, args[1:])
		if err != nil {
			return err
		}
		var rec record
		if err := c.send(http.MethodPost, k.path, body, &rec); err != nil {
			return err
		}
		fmt.Printf("✓ %s added: %v\n", kind, rec["id"])
		return nil
	default:
		return fmt.Errorf("unknown %s command: %s", kind, args[0])
	}
}

func recordFlags(kind string, args []string) (record, error) {
	fs := flag.NewFlagSet(kind+" add", flag.ExitOnError)
	body := record{}
	switch kind {
	case "worker":
		name := fs.String("name", "", "worker name")
		idNumber := fs.String("id-number", "", "national id number")
		payType := fs.String("pay", "daily", "daily, hourly or monthly")
		amount := fs.Float64("amount", 0, "payment amount")
		_ = fs.Parse(args)
		body["name"], body["id_number"], body["payment_type"], body["payment_amount"] = *name, *idNumber, *payType, *amount
	case "expense":
		project := fs.String("project", "", "project id (optional)")
		typ := fs.String("type", "", "expense type")
		amount := fs.Float64("amount", 0, "amount")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(args)
		body["project_id"], body["type"], body["amount"], body["description"] = *project, *typ, *amount, *desc
	case "income":
		project := fs.String("project", "", "project id")
		withTax := fs.Float64("with-tax", 0, "amount including tax")
		tax := fs.Float64("tax", 0, "tax percentage")
		before := fs.Float64("before-tax", 0, "amount before tax, when with-tax is not known")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(args)
		body["project_id"], body["description"] = *project, *desc
		if *withTax > 0 {
			body["amount_with_tax"], body["tax_percentage"] = *withTax, *tax
		} else {
			body["amount_before_tax"] = *before
		}
	case "workday":
		project := fs.String("project", "", "project id")
		section := fs.String("section", "", "work section name")
		pct := fs.Float64("percent", 0, "share of the section completed")
		workers := fs.String("workers", "", "comma-separated worker ids")
		floor := fs.Int("floor", -1, "floor number (buildings)")
		notes := fs.String("notes", "", "notes")
		_ = fs.Parse(args)
		ids := []string{}
		for _, id := range strings.Split(*workers, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		body["project_id"], body["work_section"], body["work_percentage"], body["workers"], body["notes"] = *project, *section, *pct, ids, *notes
		if *floor >= 0 {
			body["floor_number"] = *floor
		}
	}
	return body, nil
}

func handleReport(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: sitebook report <financial|projects>")
		return nil
	}
	c := newClient()
	switch args[0] {
	case "financial":
		fs := flag.NewFlagSet("report financial", flag.ExitOnError)
		period := fs.String("period", "", "monthly or yearly")
		project := fs.String("project", "", "project id")
		_ = fs.Parse(args[1:])

		query := map[string]string{}
		if *period != "" {
			query["period"] = *period
		}
		if *project != "" {
			query["project_id"] = *project
		}
		var rep record
		if err := c.get("/reports/financial", query, &rep); err != nil {
			return err
		}
		w := newTable()
		for _, k := range []string{"total_incomes", "total_expenses", "worker_payments", "profit"} {
			fmt.Fprintf(w, "%s\t%.2f\n", k, rep[k])
		}
		return w.Flush()
	case "projects":
		var rows []record
		if err := c.get("/reports/projects", nil, &rows); err != nil {
			return err
		}
		return printTable(rows, "project_id", "project_name", "status", "progress_percentage", "total_incomes", "total_expenses", "worker_payments", "profit")
	default:
		return fmt.Errorf("unknown report command: %s", args[0])
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func printTable(rows []record, columns ...string) error {
	w := newTable()
	fmt.Fprintln(w, strings.ToUpper(strings.Join(columns, "\t")))
	for _, r := range rows {
		vals := make([]string, len(columns))
		for i, c := range columns {
			vals[i] = fmt.Sprint(value(r, c))
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
	}
	return w.Flush()
}

func value(r record, key string) any {
	v, ok := r[key]
	if !ok || v == nil {
		return "-"
	}
	return v
}
