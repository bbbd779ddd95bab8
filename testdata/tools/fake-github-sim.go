// fake-github-sim is a test helper binary that mimics the GitHub API
// simulator's startup announcements and a small slice of its REST surface
// for integration testing. The FAKE_GITHUB_SIM_MODE environment variable
// selects a startup behavior.
//
//go:build ignore

package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: fake-github-sim <config-file>")
		os.Exit(2)
	}

	payload, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read config: %v\n", err)
		os.Exit(2)
	}
	var config map[string]any
	if err := json.Unmarshal(payload, &config); err != nil {
		fmt.Fprintf(os.Stderr, "parse config: %v\n", err)
		os.Exit(2)
	}

	switch os.Getenv("FAKE_GITHUB_SIM_MODE") {
	case "error":
		emit(map[string]any{"event": "error", "message": "scenario rejected"})
		os.Exit(1)
	case "error-silent":
		emit(map[string]any{"event": "error"})
		os.Exit(1)
	case "exit-early":
		fmt.Println("fatal: cannot initialize state")
		os.Exit(3)
	case "bad-port":
		emit(map[string]any{"event": "listening", "port": "not-a-port"})
		sleepForever()
	case "silent":
		sleepForever()
	case "noisy":
		fmt.Println("booting fake simulator")
		fmt.Println(`["not", "an", "event"]`)
		emit(map[string]any{"event": "progress", "step": 1})
		sig := trapSignals()
		listenAndAnnounce(config)
		waitForSignal(sig)
	case "stubborn":
		signal.Ignore(syscall.SIGTERM, syscall.SIGINT)
		listenAndAnnounce(config)
		sleepForever()
	default:
		sig := trapSignals()
		listenAndAnnounce(config)
		waitForSignal(sig)
	}
}

func emit(evt map[string]any) {
	payload, _ := json.Marshal(evt)
	fmt.Println(string(payload))
}

func listenAndAnnounce(config map[string]any) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		emit(map[string]any{"event": "error", "message": err.Error()})
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "state loaded: %d collections\n", len(config))
	emit(map[string]any{"event": "listening", "port": ln.Addr().(*net.TCPAddr).Port})

	go http.Serve(ln, apiHandler(config))
}

// apiHandler serves the minimal REST slice the integration tests touch.
func apiHandler(config map[string]any) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Requires authentication"}`)
			return
		}
		fmt.Fprint(w, `{"login":"token-bearer","id":1}`)
	})

	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		login := strings.TrimPrefix(r.URL.Path, "/users/")
		w.Header().Set("Content-Type", "application/json")

		users, _ := config["users"].([]any)
		for _, entry := range users {
			user, _ := entry.(map[string]any)
			if user["login"] == login {
				payload, _ := json.Marshal(user)
				w.Write(payload)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	return mux
}

// trapSignals subscribes to shutdown signals. Cooperative modes must arm
// the subscription before the listening announcement; a SIGTERM that
// arrives in between would otherwise hit the default disposition and
// kill the process instead of triggering the graceful exit.
func trapSignals() chan os.Signal {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	return sig
}

func waitForSignal(sig chan os.Signal) {
	<-sig
	os.Exit(0)
}

func sleepForever() {
	for {
		time.Sleep(time.Hour)
	}
}
