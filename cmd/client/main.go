// Package main implements a small interactive client for the Cash Flow API,
// useful for poking a running server from the terminal.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	apiSession = "/api/session"
	apiLogin   = "/api/login"
	apiList    = "/api/ledger/list"
	apiSummary = "/api/ledger/summary"
	apiAdd     = "/api/ledger/add"
	apiDelete  = "/api/ledger/delete"
)

var (
	version   string
	buildDate string
)

// client keeps the bearer token obtained by login for the duration of the
// shell session. The server itself holds no session state.
type client struct {
	http    *http.Client
	baseURL string
	token   string
}

func (c *client) do(method, path string, body any) (map[string]any, error) {
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-Auth", c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("HTTP %d: %w", resp.StatusCode, err)
	}
	if ok, _ := out["ok"].(bool); !ok && out["error"] != nil {
		return out, fmt.Errorf("HTTP %d: %v", resp.StatusCode, out["error"])
	}
	return out, nil
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// repl runs the interactive shell loop.
func repl(c *client) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("cashflow> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, session, login <pin>, add <type> <amount> <category> [note...], list, summary [days], delete <id>, exit")
		case "session":
			out, err := c.do(http.MethodGet, apiSession, nil)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printJSON(out)
		case "login":
			if len(args) < 2 {
				fmt.Println("Usage: login <pin>")
				continue
			}
			out, err := c.do(http.MethodPost, apiLogin, map[string]string{"pin": args[1]})
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			c.token, _ = out["token"].(string)
			fmt.Println("Logged in; program scope:", out["program"])
		case "add":
			if len(args) < 4 {
				fmt.Println("Usage: add <type> <amount> <category> [note...]")
				continue
			}
			out, err := c.do(http.MethodPost, apiAdd, map[string]any{
				"type":     args[1],
				"amount":   args[2],
				"category": args[3],
				"note":     strings.Join(args[4:], " "),
			})
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printJSON(out["entry"])
		case "list":
			out, err := c.do(http.MethodGet, apiList, nil)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printJSON(out["entries"])
		case "summary":
			path := apiSummary
			if len(args) > 1 {
				path += "?range=" + args[1]
			}
			out, err := c.do(http.MethodGet, path, nil)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printJSON(out)
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			if _, err := c.do(http.MethodPost, apiDelete, map[string]string{"id": args[1]}); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Entry deleted")
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// main parses command-line flags and starts the shell.
func main() {
	var (
		baseURL string
		pin     string
		showVer bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:10000", "server base URL")
	flag.StringVar(&pin, "pin", "", "PIN to log in with on startup")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Cash Flow Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	c := &client{http: &http.Client{}, baseURL: strings.TrimRight(baseURL, "/")}
	if pin != "" {
		out, err := c.do(http.MethodPost, apiLogin, map[string]string{"pin": pin})
		if err != nil {
			fmt.Println("Login failed:", err)
			os.Exit(1)
		}
		c.token, _ = out["token"].(string)
	}
	repl(c)
}
