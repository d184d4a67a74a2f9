// Command minisearchctl is a command-line client for minisearchd's
// HTTP surface: status, search, build, and scheduler control.
package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	exitOK        = 0
	exitUsage     = 1
	exitMissing   = 2
	exitTransport = 10
)

func usage() {
	fmt.Fprintln(os.Stderr, `minisearchctl usage:
  minisearchctl --host 127.0.0.1 --port 8080 status
  minisearchctl --host 127.0.0.1 --port 8080 search --q "hello world" [--topk 20]
  minisearchctl --host 127.0.0.1 --port 8080 build --dataset "/path" --threads 8 [--incremental true|false]
  minisearchctl --host 127.0.0.1 --port 8080 scheduler --enabled true|false [--interval_s 30]`)
}

// popOpt scans args for key followed by a value, removing both and
// returning the value. Mirrors the source CLI's destructive arg-popping.
func popOpt(args []string, key string) (value string, rest []string, found bool) {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == key {
			value = args[i+1]
			rest = append(append([]string{}, args[:i]...), args[i+2:]...)
			return value, rest, true
		}
	}
	return "", args, false
}

type client struct {
	baseURL string
	hc      *http.Client
}

func (c *client) get(path string) (int, string, error) {
	resp, err := c.hc.Get(c.baseURL + path)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(body), nil
}

func (c *client) postJSON(path, body string) (int, string, error) {
	resp, err := c.hc.Post(c.baseURL+path, "application/json", bytes.NewBufferString(body))
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(respBody), nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(rawArgs []string) int {
	host := "127.0.0.1"
	port := "8080"

	args := rawArgs
	if v, rest, ok := popOpt(args, "--host"); ok {
		host, args = v, rest
	}
	if v, rest, ok := popOpt(args, "--port"); ok {
		port, args = v, rest
	}

	if len(args) == 0 {
		usage()
		return exitUsage
	}

	c := &client{
		baseURL: fmt.Sprintf("http://%s:%s", host, port),
		hc:      &http.Client{Timeout: 15 * time.Second},
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "status":
		return doStatus(c)
	case "search":
		return doSearch(c, args)
	case "build":
		return doBuild(c, args)
	case "scheduler":
		return doScheduler(c, args)
	default:
		usage()
		return exitUsage
	}
}

func doStatus(c *client) int {
	_, body, err := c.get("/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitTransport
	}
	fmt.Println(body)
	return exitOK
}

func doSearch(c *client, args []string) int {
	q, args, _ := popOpt(args, "--q")
	topk, _, _ := popOpt(args, "--topk")

	if q == "" {
		fmt.Fprintln(os.Stderr, "Missing --q")
		return exitMissing
	}

	path := "/search?q=" + url.QueryEscape(q)
	if topk != "" {
		path += "&topk=" + url.QueryEscape(topk)
	}

	_, body, err := c.get(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitTransport
	}
	fmt.Println(body)
	return exitOK
}

func doBuild(c *client, args []string) int {
	dataset, args, _ := popOpt(args, "--dataset")
	threads, args, _ := popOpt(args, "--threads")
	incremental, _, _ := popOpt(args, "--incremental")

	if dataset == "" {
		fmt.Fprintln(os.Stderr, "Missing --dataset")
		return exitMissing
	}
	if threads == "" {
		threads = "4"
	}
	if incremental == "" {
		incremental = "true"
	}
	if _, err := strconv.Atoi(threads); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid --threads")
		return exitUsage
	}

	payload := fmt.Sprintf(`{"dataset_path":%q,"threads":%s,"incremental":%s}`, dataset, threads, incremental)
	_, body, err := c.postJSON("/build", payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitTransport
	}
	fmt.Println(body)
	return exitOK
}

func doScheduler(c *client, args []string) int {
	enabled, args, found := popOpt(args, "--enabled")
	interval, _, _ := popOpt(args, "--interval_s")

	if !found {
		fmt.Fprintln(os.Stderr, "Missing --enabled")
		return exitMissing
	}
	if interval == "" {
		interval = "30"
	}

	payload := fmt.Sprintf(`{"enabled":%s,"interval_s":%s}`, enabled, interval)
	_, body, err := c.postJSON("/scheduler", payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitTransport
	}
	fmt.Println(body)
	return exitOK
}
