package client_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/adamwoolhether/scorpion/client"
)

func ExampleBuild() {
	c, err := client.Build(
		client.WithTimeout(10*time.Second),
		client.WithUserAgent("example/1.0"),
		client.WithBasicAuth("jeff", "test"),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = c
	fmt.Println("client built")
	// Output: client built
}

func ExampleClient_Get() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Hello world")
	}))
	defer ts.Close()

	c, _ := client.Build(
		client.WithCallback(func(status int, body string) {
			fmt.Println(status, body)
		}),
	)

	r, err := c.Get(context.Background(), ts.URL+"/index")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	r.Wait()
	// Output: 200 Hello world
}

func ExampleClient_Post() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(w, r.Body)
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithBasicAuth("jeff", "test"))

	r, err := c.Post(context.Background(), ts.URL+"/jeff/notes", "This is a test")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	status, body := r.Wait()
	fmt.Println(status, body)
	// Output: 200 This is a test
}

func ExampleClient_SetCallback() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "done")
	}))
	defer ts.Close()

	c, _ := client.Build(
		client.WithCallback(func(int, string) { fmt.Println("old") }),
	)
	c.SetCallback(func(status int, body string) { fmt.Println("new", body) })

	r, _ := c.Get(context.Background(), ts.URL)
	r.Wait()
	// Output: new done
}

func ExampleClient_SetCredentials() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		fmt.Fprintf(w, "%q %v", user, ok)
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithBasicAuth("jeff", "test"))

	for _, step := range []func(){
		func() {},
		func() { c.SetCredentials("doug", "secret") },
		c.ClearCredentials,
	} {
		step()

		r, _ := c.Get(context.Background(), ts.URL)
		_, body := r.Wait()
		fmt.Println(body)
	}
	// Output:
	// "jeff" true
	// "doug" true
	// "" false
}

func ExampleResult_Cancel() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	c, _ := client.Build(client.WithLogger(quietLogger()))

	r, _ := c.Get(context.Background(), ts.URL)
	r.Cancel()

	status, body := r.Wait()
	fmt.Printf("%d %q\n", status, body)
	// Output: 0 ""
}
