package calculator

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Полные имена методов сервиса
const (
	ServiceName              = "calculator.Calculator"
	CalculateFullMethod      = "/calculator.Calculator/Calculate"
	ListOperationsFullMethod = "/calculator.Calculator/ListOperations"
)

// Интерфейс для CalculatorClient
type CalculatorClient interface {
	Calculate(ctx context.Context, in *CalculateRequest, opts ...grpc.CallOption) (*CalculateResponse, error)
	ListOperations(ctx context.Context, in *ListOperationsRequest, opts ...grpc.CallOption) (*ListOperationsResponse, error)
}

// Интерфейс для CalculatorServer
type CalculatorServer interface {
	Calculate(ctx context.Context, in *CalculateRequest) (*CalculateResponse, error)
	ListOperations(ctx context.Context, in *ListOperationsRequest) (*ListOperationsResponse, error)
}

// Базовая реализация CalculatorServer
type UnimplementedCalculatorServer struct{}

// Стаб для Calculate
func (s *UnimplementedCalculatorServer) Calculate(ctx context.Context, in *CalculateRequest) (*CalculateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "метод Calculate не реализован")
}

// Стаб для ListOperations
func (s *UnimplementedCalculatorServer) ListOperations(ctx context.Context, in *ListOperationsRequest) (*ListOperationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "метод ListOperations не реализован")
}

// RegisterCalculatorServer регистрирует сервер Calculator в gRPC
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&_Calculator_serviceDesc, srv)
}

var _Calculator_serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Calculate",
			Handler:    _Calculator_Calculate_Handler,
		},
		{
			MethodName: "ListOperations",
			Handler:    _Calculator_ListOperations_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calculator.json",
}

// Обработчик Calculate
func _Calculator_Calculate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CalculateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).Calculate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CalculateFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).Calculate(ctx, req.(*CalculateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Обработчик ListOperations
func _Calculator_ListOperations_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListOperationsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).ListOperations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListOperationsFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).ListOperations(ctx, req.(*ListOperationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// NewCalculatorClient создает нового клиента для сервиса Calculator
func NewCalculatorClient(cc grpc.ClientConnInterface) CalculatorClient {
	return &calculatorClient{cc}
}

// Реализация клиента. Все вызовы идут через JSON-кодек.
type calculatorClient struct {
	cc grpc.ClientConnInterface
}

// Calculate вызывает Calculate у сервера
func (c *calculatorClient) Calculate(ctx context.Context, in *CalculateRequest, opts ...grpc.CallOption) (*CalculateResponse, error) {
	out := new(CalculateResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, CalculateFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOperations вызывает ListOperations у сервера
func (c *calculatorClient) ListOperations(ctx context.Context, in *ListOperationsRequest, opts ...grpc.CallOption) (*ListOperationsResponse, error) {
	out := new(ListOperationsResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, ListOperationsFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CalculateRequest запрос на вычисление
type CalculateRequest struct {
	Operation string  `json:"operation"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// CalculateResponse результат вычисления
type CalculateResponse struct {
	Operation string  `json:"operation"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Result    float64 `json:"result"`
}

// ListOperationsRequest запрос списка операций
type ListOperationsRequest struct{}

// ListOperationsResponse список поддерживаемых операций
type ListOperationsResponse struct {
	Operations []string `json:"operations"`
}
