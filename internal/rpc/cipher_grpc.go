package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/DivijChawla/DivijEncrypt/internal/cipher"
)

const (
	ServiceName = "divij.cipher.v1.Cipher"

	Cipher_Execute_FullMethodName = "/" + ServiceName + "/Execute"
	Cipher_List_FullMethodName    = "/" + ServiceName + "/List"
)

// ExecuteRequest runs exactly one of a single operation, an inline pipeline
// or a stored recipe. Reverse applies to pipelines and recipes.
type ExecuteRequest struct {
	Operation  string                   `json:"operation,omitempty"`
	Parameters map[string]interface{}   `json:"parameters,omitempty"`
	Pipeline   []cipher.OperationConfig `json:"pipeline,omitempty"`
	Recipe     string                   `json:"recipe,omitempty"`
	Reverse    bool                     `json:"reverse,omitempty"`
	Input      string                   `json:"input"`
}

type ExecuteReply struct {
	Output string `json:"output"`
}

type ListRequest struct {
	Type string `json:"type,omitempty"`
}

type OperationInfo struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Description string             `json:"description"`
	Parameters  []cipher.ParamSpec `json:"parameters,omitempty"`
	Inverse     string             `json:"inverse,omitempty"`
}

type ListReply struct {
	Operations []OperationInfo `json:"operations"`
}

type CipherClient interface {
	Execute(ctx context.Context, in *ExecuteRequest, opts ...grpc.CallOption) (*ExecuteReply, error)
	List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListReply, error)
}

type cipherClient struct {
	cc grpc.ClientConnInterface
}

// NewCipherClient returns a client that speaks the JSON codec.
func NewCipherClient(cc grpc.ClientConnInterface) CipherClient {
	return &cipherClient{cc}
}

func (c *cipherClient) Execute(ctx context.Context, in *ExecuteRequest, opts ...grpc.CallOption) (*ExecuteReply, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod(), grpc.CallContentSubtype(codecName)}, opts...)
	out := new(ExecuteReply)
	if err := c.cc.Invoke(ctx, Cipher_Execute_FullMethodName, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cipherClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListReply, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod(), grpc.CallContentSubtype(codecName)}, opts...)
	out := new(ListReply)
	if err := c.cc.Invoke(ctx, Cipher_List_FullMethodName, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

type CipherServer interface {
	Execute(context.Context, *ExecuteRequest) (*ExecuteReply, error)
	List(context.Context, *ListRequest) (*ListReply, error)
}

// UnimplementedCipherServer can be embedded to satisfy CipherServer.
type UnimplementedCipherServer struct{}

func (UnimplementedCipherServer) Execute(context.Context, *ExecuteRequest) (*ExecuteReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Execute not implemented")
}

func (UnimplementedCipherServer) List(context.Context, *ListRequest) (*ListReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method List not implemented")
}

func RegisterCipherServer(s grpc.ServiceRegistrar, srv CipherServer) {
	s.RegisterService(&Cipher_ServiceDesc, srv)
}

func _Cipher_Execute_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ExecuteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CipherServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Cipher_Execute_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CipherServer).Execute(ctx, req.(*ExecuteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Cipher_List_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CipherServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Cipher_List_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CipherServer).List(ctx, req.(*ListRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var Cipher_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CipherServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Execute",
			Handler:    _Cipher_Execute_Handler,
		},
		{
			MethodName: "List",
			Handler:    _Cipher_List_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "divij/cipher/v1/cipher.json",
}
