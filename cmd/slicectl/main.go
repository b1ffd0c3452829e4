package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/panelkit/panelkit/internal/config"
	"github.com/panelkit/panelkit/internal/logging"
	"github.com/panelkit/panelkit/internal/sliceby"
)

const usage = `usage: slicectl [-api URL | -config FILE] <command> [args]

commands:
  info <sliceby-id>
  rows <sliceby-id> <slice-key> <start> <end>
  agg  <sliceby-id> <name=aggregation-id> [name=id ...]
`

func main() {
	apiURL := flag.String("api", "http://127.0.0.1:7860", "panel API base URL")
	configPath := flag.String("config", "", "path to slicectl config file, overrides -api")
	token := flag.String("token", "", "bearer token for a token-guarded panel")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	logging.ConfigureRuntime("slicectl")

	url := *apiURL
	authToken := *token
	if *configPath != "" {
		cfg, err := config.LoadClientConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "slicectl: %v\n", err)
			os.Exit(1)
		}
		url = cfg.APIURL
		if authToken == "" {
			authToken = cfg.AuthToken
		}
	}

	if err := run(url, authToken, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "slicectl: %v\n", err)
		os.Exit(1)
	}
}

// bearerTransport adds the panel auth header to every request.
type bearerTransport struct {
	token string
}

func (t bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

func run(apiURL, token string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing command\n%s", usage)
	}
	client := sliceby.NewClient(apiURL)
	if token != "" {
		client = sliceby.NewClientWithHTTP(apiURL, &http.Client{
			Transport: bearerTransport{token: token},
		})
	}
	ctx := context.Background()

	switch args[0] {
	case "info":
		info, err := client.GetInfo(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(info)
	case "rows":
		if len(args) != 5 {
			return fmt.Errorf("rows requires <sliceby-id> <slice-key> <start> <end>")
		}
		start, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("parse start: %w", err)
		}
		end, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("parse end: %w", err)
		}
		payload, err := client.GetRows(ctx, args[1], parseKey(args[2]), start, end)
		if err != nil {
			return err
		}
		return printRaw(payload)
	case "agg":
		aggregations := make(map[string]string, len(args)-2)
		for _, pair := range args[2:] {
			name, id, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("aggregation %q must be name=id", pair)
			}
			aggregations[name] = id
		}
		results, err := client.GetAggregations(ctx, args[1], aggregations)
		if err != nil {
			return err
		}
		return printJSON(results)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func parseKey(raw string) sliceby.SliceKey {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return sliceby.IntKey(n)
	}
	return sliceby.StringKey(raw)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printRaw(raw json.RawMessage) error {
	var buf any
	if err := json.Unmarshal(raw, &buf); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	return printJSON(buf)
}
