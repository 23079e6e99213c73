package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/project-tktt/go-jobboard/internal/backend"
	"github.com/project-tktt/go-jobboard/internal/search"
	"github.com/spf13/cobra"
)

// searchFlags maps CLI flags onto the search query keys
var searchFlags = []struct {
	flag, key, usage string
}{
	{"search", "search", "free-text search"},
	{"location", "location", "exact location (worldwide = any)"},
	{"company", "company", "company name substring"},
	{"job-types", "jobTypes", "comma separated employment types"},
	{"salary-min", "salaryMin", "minimum salary"},
	{"salary-max", "salaryMax", "maximum salary"},
	{"date-posted", "datePosted", "posted within this many days"},
	{"sort-by", "sortBy", "createdAt, salaryFrom, salaryTo, jobTitle or Company.name"},
	{"sort-order", "sortOrder", "asc or desc"},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a job search against the configured store and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		for _, f := range searchFlags {
			if v, _ := cmd.Flags().GetString(f.flag); v != "" {
				q.Set(f.key, v)
			}
		}
		page, _ := cmd.Flags().GetInt("page")
		q.Set("page", strconv.Itoa(page))

		listings, closeStore, err := backend.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		opts := search.Options{
			PageSize:      cfg.Search.PageSize,
			SalaryCeiling: cfg.Search.SalaryCeiling,
		}
		engine := search.NewEngine(listings, opts)
		req := engine.ParseQuery(q)
		fmt.Fprintf(cmd.ErrOrStderr(), "GET /api/v1/jobs?%s\n", req.Values(opts).Encode())

		res, err := engine.Search(cmd.Context(), req)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	for _, f := range searchFlags {
		searchCmd.Flags().String(f.flag, "", f.usage)
	}
	searchCmd.Flags().Int("page", 1, "result page")
}
