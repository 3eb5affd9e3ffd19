package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// User represents the structure of a user document to save
type User struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// generateRandomName generates a random 6-letter name
func generateRandomName(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 6)
	for i := range name {
		name[i] = letters[rng.Intn(len(letters))]
	}
	name[0] = name[0] - 32
	return string(name)
}

// call invokes a bridge method and decodes its result
func call(ctx context.Context, client *http.Client, baseURL, method string, args interface{}, result interface{}) error {
	payload, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/call/"+method, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("%s failed with %d %s: %s", method, resp.StatusCode, errResp.Kind, errResp.Message)
	}
	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(&struct {
		Result interface{} `json:"result"`
	}{Result: result})
}

func main() {
	var (
		numUsers    = pflag.IntP("users", "n", 1000, "number of user documents to save")
		serverURL   = pflag.String("url", "http://localhost:8080", "go-docsync server URL")
		database    = pflag.String("db", "users", "database to save into")
		concurrency = pflag.IntP("concurrency", "c", 8, "concurrent requests")
	)
	pflag.Parse()

	if *numUsers <= 0 {
		fmt.Println("Error: number of users must be greater than 0")
		os.Exit(1)
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 10 * time.Second}

	if err := call(ctx, client, *serverURL, "initDatabaseWithName", map[string]string{"name": *database}, nil); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting load test: saving %d users to %s/%s\n", *numUsers, *serverURL, *database)

	startTime := time.Now()
	var successCount, errorCount atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)
	for i := 0; i < *numUsers; i++ {
		rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
		name := generateRandomName(rng)
		user := User{
			Name:  name,
			Age:   rng.Intn(82) + 18,
			Email: fmt.Sprintf("%s@example.com", strings.ToLower(name)),
		}

		g.Go(func() error {
			var id string
			if err := call(gCtx, client, *serverURL, "saveDocument", map[string]interface{}{"doc": user}, &id); err != nil {
				errorCount.Add(1)
				fmt.Printf("Error saving user %s: %v\n", user.Name, err)
				return nil
			}
			successCount.Add(1)
			return nil
		})
	}
	g.Wait()

	totalTime := time.Since(startTime)

	var all struct {
		Docs []interface{} `json:"docs"`
	}
	if err := call(ctx, client, *serverURL, "getAllDocuments", map[string]string{}, &all); err != nil {
		fmt.Printf("Error reading back documents: %v\n", err)
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("LOAD TEST COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total users attempted: %d\n", *numUsers)
	fmt.Printf("Successful saves:      %d\n", successCount.Load())
	fmt.Printf("Failed saves:          %d\n", errorCount.Load())
	fmt.Printf("Documents in database: %d\n", len(all.Docs))
	fmt.Printf("Total time:            %v\n", totalTime)
	fmt.Printf("Average rate:          %.2f users/sec\n", float64(*numUsers)/totalTime.Seconds())

	if errorCount.Load() > 0 {
		os.Exit(1)
	}
}
