package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/DivijChawla/DivijEncrypt/internal/api"
	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
	"github.com/DivijChawla/DivijEncrypt/internal/service"
)

func newService(t *testing.T) *service.Service {
	t.Helper()
	rm := cipher.NewRecipeManager("")
	if err := rm.SaveRecipe(&cipher.Recipe{
		Name:     "swap-mod",
		Pipeline: cipher.Pipeline{Operations: []cipher.OperationConfig{{Name: "pairwise_swap_encrypt"}, {Name: "modular_encrypt", Parameters: map[string]interface{}{"key": 7}}}, Reversible: true},
	}); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	svc, err := service.New(service.Config{Recipes: rm})
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	return svc
}

func bufClient(t *testing.T) CipherClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(newService(t), zerolog.Nop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewCipherClient(conn)
}

func TestExecute(t *testing.T) {
	client := bufClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reply, err := client.Execute(ctx, &ExecuteRequest{Operation: "board_encrypt", Input: "HELLO"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if reply.Output != "JOVVQ" {
		t.Errorf("expected JOVVQ, got %q", reply.Output)
	}

	reply, err = client.Execute(ctx, &ExecuteRequest{Operation: "shuffle_encrypt", Input: "abc", Parameters: map[string]interface{}{"key": []int{2, 0, 1}}})
	if err != nil {
		t.Fatalf("Execute shuffle: %v", err)
	}
	if reply.Output != "cab" {
		t.Errorf("expected cab, got %q", reply.Output)
	}
}

func TestExecutePipelineAndRecipe(t *testing.T) {
	client := bufClient(t)
	ctx := context.Background()

	steps := []cipher.OperationConfig{{Name: "mirror_encrypt"}, {Name: "spiral_encrypt", Parameters: map[string]interface{}{"size": 4}}}
	enc, err := client.Execute(ctx, &ExecuteRequest{Pipeline: steps, Input: "round"})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	dec, err := client.Execute(ctx, &ExecuteRequest{Pipeline: steps, Input: enc.Output, Reverse: true})
	if err != nil {
		t.Fatalf("reverse pipeline: %v", err)
	}
	if dec.Output != "round" {
		t.Errorf("expected round, got %q", dec.Output)
	}

	enc, err = client.Execute(ctx, &ExecuteRequest{Recipe: "swap-mod", Input: "recipe"})
	if err != nil {
		t.Fatalf("recipe: %v", err)
	}
	dec, err = client.Execute(ctx, &ExecuteRequest{Recipe: "swap-mod", Input: enc.Output, Reverse: true})
	if err != nil {
		t.Fatalf("reverse recipe: %v", err)
	}
	if dec.Output != "recipe" {
		t.Errorf("expected recipe, got %q", dec.Output)
	}
}

func TestExecuteStatusCodes(t *testing.T) {
	client := bufClient(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *ExecuteRequest
		want codes.Code
	}{
		{"empty", &ExecuteRequest{Input: "x"}, codes.InvalidArgument},
		{"unknown operation", &ExecuteRequest{Operation: "rot13", Input: "x"}, codes.NotFound},
		{"unknown recipe", &ExecuteRequest{Recipe: "missing", Input: "x"}, codes.NotFound},
		{"invalid key", &ExecuteRequest{Operation: "modular_encrypt", Input: "x", Parameters: map[string]interface{}{"key": 51}}, codes.InvalidArgument},
		{"domain", &ExecuteRequest{Operation: "coordinate_encrypt", Input: "日本"}, codes.InvalidArgument},
		{"operation and pipeline", &ExecuteRequest{Operation: "modular_encrypt", Pipeline: []cipher.OperationConfig{{Name: "mirror_encrypt"}}, Input: "AB"}, codes.InvalidArgument},
		{"pipeline and recipe", &ExecuteRequest{Pipeline: []cipher.OperationConfig{{Name: "mirror_encrypt"}}, Recipe: "missing", Input: "AB"}, codes.InvalidArgument},
		{"all three", &ExecuteRequest{Operation: "mirror_encrypt", Pipeline: []cipher.OperationConfig{{Name: "mirror_encrypt"}}, Recipe: "missing", Input: "AB"}, codes.InvalidArgument},
		{"reverse single operation", &ExecuteRequest{Operation: "mirror_encrypt", Reverse: true, Input: "AB"}, codes.InvalidArgument},
		{"spiral too small", &ExecuteRequest{Operation: "spiral_encrypt", Input: "hello", Parameters: map[string]interface{}{"size": 2}}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Execute(ctx, tt.req)
			if got := status.Code(err); got != tt.want {
				t.Errorf("expected %s, got %s (%v)", tt.want, got, err)
			}
		})
	}
}

func TestList(t *testing.T) {
	client := bufClient(t)
	ctx := context.Background()

	reply, err := client.List(ctx, &ListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reply.Operations) != 20 {
		t.Fatalf("expected 20 operations, got %d", len(reply.Operations))
	}

	reply, err = client.List(ctx, &ListRequest{Type: string(cipher.OperationTypeDecrypt)})
	if err != nil {
		t.Fatalf("List decrypt: %v", err)
	}
	if len(reply.Operations) != 10 {
		t.Fatalf("expected 10 decrypt operations, got %d", len(reply.Operations))
	}
	for _, op := range reply.Operations {
		if op.Inverse == "" {
			t.Errorf("%s is missing its inverse", op.Name)
		}
	}
}

// gRPC and REST share one cleartext HTTP/2 listener.
func TestSharedListener(t *testing.T) {
	svc := newService(t)
	grpcServer := NewGRPCServer(svc, zerolog.Nop())
	defer grpcServer.Stop()

	server, err := api.NewServer(api.Config{Addr: "127.0.0.1:0", Service: svc, Logger: zerolog.Nop(), GRPC: grpcServer})
	if err != nil {
		t.Fatalf("api.NewServer: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = server.Serve(ctx, ln) }()

	conn, err := Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	callCtx, callCancel := context.WithTimeout(ctx, 5*time.Second)
	defer callCancel()
	reply, err := NewCipherClient(conn).Execute(callCtx, &ExecuteRequest{Operation: "coordinate_encrypt", Input: "A"}, grpc.WaitForReady(true))
	if err != nil {
		t.Fatalf("Execute over h2c: %v", err)
	}
	if reply.Output != "b" {
		t.Errorf("expected b, got %q", reply.Output)
	}
}
