// Package rpc serves the cipher catalogue over gRPC. Messages are plain Go
// structs carried by a JSON codec, so no generated code is involved.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
	"github.com/DivijChawla/DivijEncrypt/internal/observability/metrics"
	"github.com/DivijChawla/DivijEncrypt/internal/service"
)

// Server implements CipherServer on top of a service.Service.
type Server struct {
	UnimplementedCipherServer
	svc *service.Service
}

func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

// NewGRPCServer returns a grpc.Server with the cipher service registered.
func NewGRPCServer(svc *service.Service, log zerolog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryServerInterceptor(log))}, opts...)
	srv := grpc.NewServer(opts...)
	RegisterCipherServer(srv, NewServer(svc))
	return srv
}

func (s *Server) Execute(ctx context.Context, req *ExecuteRequest) (*ExecuteReply, error) {
	var (
		out []byte
		err error
	)
	hasOperation := strings.TrimSpace(req.Operation) != ""
	modes := 0
	for _, set := range []bool{hasOperation, len(req.Pipeline) > 0, req.Recipe != ""} {
		if set {
			modes++
		}
	}
	switch {
	case modes != 1:
		return nil, status.Error(codes.InvalidArgument, "exactly one of operation, pipeline or recipe is required")
	case req.Reverse && hasOperation:
		return nil, status.Error(codes.InvalidArgument, "reverse applies to pipelines and recipes; call the inverse operation instead")
	}

	switch {
	case req.Recipe != "":
		out, err = s.svc.RunRecipe(ctx, req.Recipe, []byte(req.Input), req.Reverse)
	case len(req.Pipeline) > 0:
		pipeline := &cipher.Pipeline{Operations: req.Pipeline, Reversible: true}
		if req.Reverse {
			if pipeline, err = s.svc.ReversePipeline(pipeline); err != nil {
				return nil, toStatus(err)
			}
		}
		out, err = s.svc.RunPipeline(ctx, pipeline, []byte(req.Input))
	default:
		out, err = s.svc.Execute(ctx, req.Operation, []byte(req.Input), req.Parameters)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return &ExecuteReply{Output: string(out)}, nil
}

func (s *Server) List(ctx context.Context, req *ListRequest) (*ListReply, error) {
	reply := &ListReply{Operations: []OperationInfo{}}
	for _, op := range s.svc.Operations() {
		if req.Type != "" && string(op.Type()) != req.Type {
			continue
		}
		info := OperationInfo{
			Name:        op.Name(),
			Type:        string(op.Type()),
			Description: op.Description(),
			Parameters:  op.Parameters(),
		}
		if inverse, ok := op.Reverse(); ok {
			info.Inverse = inverse.Name()
		}
		reply.Operations = append(reply.Operations, info)
	}
	return reply, nil
}

// toStatus maps service errors onto gRPC status codes.
func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, cipher.ErrUnknownOperation), errors.Is(err, cipher.ErrRecipeNotFound):
		code = codes.NotFound
	case errors.Is(err, cipher.ErrInvalidParameter), errors.Is(err, cipher.ErrDomainViolation):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrNoRecipes):
		code = codes.Unavailable
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		code = codes.FailedPrecondition
	}
	return status.Error(code, err.Error())
}

// UnaryServerInterceptor records request metrics and a debug line per call.
func UnaryServerInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		_, method := splitMethod(info.FullMethod)
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err).String()

		metrics.RecordRPCRequest("grpc", method)
		metrics.ObserveRPCLatency("grpc", method, code, time.Since(start))
		if err != nil {
			metrics.RecordRPCError("grpc", method, code)
		}
		log.Debug().
			Str("method", info.FullMethod).
			Str("code", code).
			Dur("elapsed", time.Since(start)).
			Msg("rpc")
		return resp, err
	}
}

func splitMethod(full string) (string, string) {
	full = strings.TrimPrefix(full, "/")
	parts := strings.Split(full, "/")
	if len(parts) != 2 {
		return full, ""
	}
	return parts[0], parts[1]
}

// Dial opens a client connection to a plaintext server at addr.
func Dial(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("rpc address must be provided")
	}
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	return grpc.NewClient(addr, opts...)
}
