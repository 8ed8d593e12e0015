package grpcapi

import (
	"context"
	"net"
	"strings"

	"github.com/GGmuzem/calculator-api/internal/auth"
	"github.com/GGmuzem/calculator-api/internal/calculate"
	"github.com/GGmuzem/calculator-api/internal/history"
	"github.com/GGmuzem/calculator-api/pkg/calculator"
	"github.com/GGmuzem/calculator-api/pkg/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// CalculatorServer реализация gRPC сервиса калькулятора
type CalculatorServer struct {
	calculator.UnimplementedCalculatorServer

	service  *calculate.Service
	recorder *history.Recorder
}

// NewCalculatorServer создает gRPC сервер поверх сервиса вычислений.
// recorder может быть nil, тогда история не пишется.
func NewCalculatorServer(service *calculate.Service, recorder *history.Recorder) *CalculatorServer {
	return &CalculatorServer{service: service, recorder: recorder}
}

// NewGRPCServer создает grpc.Server с зарегистрированным сервисом.
// authenticator может быть nil.
func NewGRPCServer(srv *CalculatorServer, authenticator *auth.Authenticator) *grpc.Server {
	var opts []grpc.ServerOption
	if authenticator != nil {
		opts = append(opts, grpc.UnaryInterceptor(AuthInterceptor(authenticator)))
	}

	grpcServer := grpc.NewServer(opts...)
	calculator.RegisterCalculatorServer(grpcServer, srv)

	// Включаем рефлексию для отладки
	reflection.Register(grpcServer)
	return grpcServer
}

// Listen открывает TCP листенер для gRPC сервера
func Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// Calculate выполняет вычисление
func (s *CalculatorServer) Calculate(ctx context.Context, req *calculator.CalculateRequest) (*calculator.CalculateResponse, error) {
	result, err := s.service.Calculate(req.Operation, req.X, req.Y)
	if err == nil {
		err = calculate.CheckFinite(result)
	}
	s.record(ctx, req, result, err)

	if err != nil {
		if calculate.IsCalcError(err) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	return &calculator.CalculateResponse{
		Operation: req.Operation,
		X:         req.X,
		Y:         req.Y,
		Result:    result,
	}, nil
}

// ListOperations возвращает поддерживаемые операции
func (s *CalculatorServer) ListOperations(ctx context.Context, req *calculator.ListOperationsRequest) (*calculator.ListOperationsResponse, error) {
	return &calculator.ListOperationsResponse{Operations: s.service.AvailableOperations()}, nil
}

func (s *CalculatorServer) record(ctx context.Context, req *calculator.CalculateRequest, result float64, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(auth.UserIDFromContext(ctx), models.SourceGRPC, req.Operation, req.X, req.Y, result, err)
}

// AuthInterceptor добавляет пользователя в контекст, если в метаданных есть действительный токен.
// Вызовы без токена или с неверным токеном обслуживаются анонимно, как и в HTTP API.
func AuthInterceptor(authenticator *auth.Authenticator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if token := tokenFromMetadata(ctx); token != "" {
			if user, err := authenticator.AuthenticateToken(token); err == nil {
				ctx = auth.SetUserContext(ctx, user)
			}
		}
		return handler(ctx, req)
	}
}

func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	value := values[0]
	if len(value) > 7 && strings.EqualFold(value[:7], "bearer ") {
		return strings.TrimSpace(value[7:])
	}
	return ""
}
