package nets

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tutor/modes"
)

func TestIsLocalAddr(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Call(func(
		isLocalAddr IsLocalAddr,
	) {
		for addr, expected := range map[string]bool{
			"127.0.0.1:10000": true,
			"[::1]:80":        true,
			"10.0.0.2":        true,
			":3001":           false,
			"0.0.0.0:3001":    false,
			"8.8.8.8:53":      false,
		} {
			yes, err := isLocalAddr(addr)
			if err != nil {
				t.Fatal(err)
			}
			if yes != expected {
				t.Fatalf("%s: got %v", addr, yes)
			}
		}
	})
}

func TestListenLimit(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		new(Module),
	).Call(func(
		listen Listen,
	) {
		ln, err := listen("127.0.0.1:0", 1)
		if err != nil {
			t.Fatal(err)
		}
		defer ln.Close()

		var mu sync.Mutex
		accepted := 0
		go func() {
			for {
				conn, err := ln.Accept()
				if err != nil {
					return
				}
				mu.Lock()
				accepted++
				mu.Unlock()
				_ = conn // held open
			}
		}()

		for range 2 {
			conn, err := net.Dial("tcp", ln.Addr().String())
			if err != nil {
				t.Fatal(err)
			}
			defer conn.Close()
		}
		time.Sleep(time.Millisecond * 100)
		mu.Lock()
		defer mu.Unlock()
		if accepted != 1 {
			t.Fatalf("got %d", accepted)
		}
	})
}
