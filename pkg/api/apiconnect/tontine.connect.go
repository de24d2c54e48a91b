// Package apiconnect binds the dourou.v1.TontineService messages in package
// api to Connect handlers and clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/dourou/pkg/api"
)

// TontineServiceName is the fully-qualified name of the TontineService service.
const TontineServiceName = "dourou.v1.TontineService"

// Procedure paths served by NewTontineServiceHandler.
const (
	TontineServiceCreateTontineProcedure   = "/dourou.v1.TontineService/CreateTontine"
	TontineServiceGetTontineProcedure      = "/dourou.v1.TontineService/GetTontine"
	TontineServiceListTontinesProcedure    = "/dourou.v1.TontineService/ListTontines"
	TontineServiceAddMemberProcedure       = "/dourou.v1.TontineService/AddMember"
	TontineServiceRemoveMemberProcedure    = "/dourou.v1.TontineService/RemoveMember"
	TontineServiceReorderMembersProcedure  = "/dourou.v1.TontineService/ReorderMembers"
	TontineServiceShuffleMembersProcedure  = "/dourou.v1.TontineService/ShuffleMembers"
	TontineServiceLaunchTontineProcedure   = "/dourou.v1.TontineService/LaunchTontine"
	TontineServiceDeclarePaymentProcedure  = "/dourou.v1.TontineService/DeclarePayment"
	TontineServiceConfirmPaymentProcedure  = "/dourou.v1.TontineService/ConfirmPayment"
	TontineServiceMarkPaymentPaidProcedure = "/dourou.v1.TontineService/MarkPaymentPaid"
	TontineServiceGetPotProgressProcedure  = "/dourou.v1.TontineService/GetPotProgress"
	TontineServiceAdvanceRoundProcedure    = "/dourou.v1.TontineService/AdvanceRound"
)

// TontineServiceHandler is implemented by the server side of the service.
type TontineServiceHandler interface {
	CreateTontine(context.Context, *connect.Request[api.CreateTontineRequest]) (*connect.Response[api.CreateTontineResponse], error)
	GetTontine(context.Context, *connect.Request[api.GetTontineRequest]) (*connect.Response[api.GetTontineResponse], error)
	ListTontines(context.Context, *connect.Request[api.ListTontinesRequest]) (*connect.Response[api.ListTontinesResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	ReorderMembers(context.Context, *connect.Request[api.ReorderMembersRequest]) (*connect.Response[api.ReorderMembersResponse], error)
	ShuffleMembers(context.Context, *connect.Request[api.ShuffleMembersRequest]) (*connect.Response[api.ShuffleMembersResponse], error)
	LaunchTontine(context.Context, *connect.Request[api.LaunchTontineRequest]) (*connect.Response[api.LaunchTontineResponse], error)
	DeclarePayment(context.Context, *connect.Request[api.DeclarePaymentRequest]) (*connect.Response[api.DeclarePaymentResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
	MarkPaymentPaid(context.Context, *connect.Request[api.MarkPaymentPaidRequest]) (*connect.Response[api.MarkPaymentPaidResponse], error)
	GetPotProgress(context.Context, *connect.Request[api.GetPotProgressRequest]) (*connect.Response[api.GetPotProgressResponse], error)
	AdvanceRound(context.Context, *connect.Request[api.AdvanceRoundRequest]) (*connect.Response[api.AdvanceRoundResponse], error)
}

// NewTontineServiceHandler builds an HTTP handler from the service
// implementation. It returns the path to mount the handler on. The JSON
// codec of package api is always installed.
func NewTontineServiceHandler(svc TontineServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	createTontineHandler := connect.NewUnaryHandler(TontineServiceCreateTontineProcedure, svc.CreateTontine, opts...)
	getTontineHandler := connect.NewUnaryHandler(TontineServiceGetTontineProcedure, svc.GetTontine, opts...)
	listTontinesHandler := connect.NewUnaryHandler(TontineServiceListTontinesProcedure, svc.ListTontines, opts...)
	addMemberHandler := connect.NewUnaryHandler(TontineServiceAddMemberProcedure, svc.AddMember, opts...)
	removeMemberHandler := connect.NewUnaryHandler(TontineServiceRemoveMemberProcedure, svc.RemoveMember, opts...)
	reorderMembersHandler := connect.NewUnaryHandler(TontineServiceReorderMembersProcedure, svc.ReorderMembers, opts...)
	shuffleMembersHandler := connect.NewUnaryHandler(TontineServiceShuffleMembersProcedure, svc.ShuffleMembers, opts...)
	launchTontineHandler := connect.NewUnaryHandler(TontineServiceLaunchTontineProcedure, svc.LaunchTontine, opts...)
	declarePaymentHandler := connect.NewUnaryHandler(TontineServiceDeclarePaymentProcedure, svc.DeclarePayment, opts...)
	confirmPaymentHandler := connect.NewUnaryHandler(TontineServiceConfirmPaymentProcedure, svc.ConfirmPayment, opts...)
	markPaymentPaidHandler := connect.NewUnaryHandler(TontineServiceMarkPaymentPaidProcedure, svc.MarkPaymentPaid, opts...)
	getPotProgressHandler := connect.NewUnaryHandler(TontineServiceGetPotProgressProcedure, svc.GetPotProgress, opts...)
	advanceRoundHandler := connect.NewUnaryHandler(TontineServiceAdvanceRoundProcedure, svc.AdvanceRound, opts...)
	return "/" + TontineServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case TontineServiceCreateTontineProcedure:
			createTontineHandler.ServeHTTP(w, r)
		case TontineServiceGetTontineProcedure:
			getTontineHandler.ServeHTTP(w, r)
		case TontineServiceListTontinesProcedure:
			listTontinesHandler.ServeHTTP(w, r)
		case TontineServiceAddMemberProcedure:
			addMemberHandler.ServeHTTP(w, r)
		case TontineServiceRemoveMemberProcedure:
			removeMemberHandler.ServeHTTP(w, r)
		case TontineServiceReorderMembersProcedure:
			reorderMembersHandler.ServeHTTP(w, r)
		case TontineServiceShuffleMembersProcedure:
			shuffleMembersHandler.ServeHTTP(w, r)
		case TontineServiceLaunchTontineProcedure:
			launchTontineHandler.ServeHTTP(w, r)
		case TontineServiceDeclarePaymentProcedure:
			declarePaymentHandler.ServeHTTP(w, r)
		case TontineServiceConfirmPaymentProcedure:
			confirmPaymentHandler.ServeHTTP(w, r)
		case TontineServiceMarkPaymentPaidProcedure:
			markPaymentPaidHandler.ServeHTTP(w, r)
		case TontineServiceGetPotProgressProcedure:
			getPotProgressHandler.ServeHTTP(w, r)
		case TontineServiceAdvanceRoundProcedure:
			advanceRoundHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedTontineServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedTontineServiceHandler struct{}

func (UnimplementedTontineServiceHandler) CreateTontine(context.Context, *connect.Request[api.CreateTontineRequest]) (*connect.Response[api.CreateTontineResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.CreateTontine is not implemented"))
}

func (UnimplementedTontineServiceHandler) GetTontine(context.Context, *connect.Request[api.GetTontineRequest]) (*connect.Response[api.GetTontineResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.GetTontine is not implemented"))
}

func (UnimplementedTontineServiceHandler) ListTontines(context.Context, *connect.Request[api.ListTontinesRequest]) (*connect.Response[api.ListTontinesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.ListTontines is not implemented"))
}

func (UnimplementedTontineServiceHandler) AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.AddMember is not implemented"))
}

func (UnimplementedTontineServiceHandler) RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.RemoveMember is not implemented"))
}

func (UnimplementedTontineServiceHandler) ReorderMembers(context.Context, *connect.Request[api.ReorderMembersRequest]) (*connect.Response[api.ReorderMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.ReorderMembers is not implemented"))
}

func (UnimplementedTontineServiceHandler) ShuffleMembers(context.Context, *connect.Request[api.ShuffleMembersRequest]) (*connect.Response[api.ShuffleMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.ShuffleMembers is not implemented"))
}

func (UnimplementedTontineServiceHandler) LaunchTontine(context.Context, *connect.Request[api.LaunchTontineRequest]) (*connect.Response[api.LaunchTontineResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.LaunchTontine is not implemented"))
}

func (UnimplementedTontineServiceHandler) DeclarePayment(context.Context, *connect.Request[api.DeclarePaymentRequest]) (*connect.Response[api.DeclarePaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.DeclarePayment is not implemented"))
}

func (UnimplementedTontineServiceHandler) ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.ConfirmPayment is not implemented"))
}

func (UnimplementedTontineServiceHandler) MarkPaymentPaid(context.Context, *connect.Request[api.MarkPaymentPaidRequest]) (*connect.Response[api.MarkPaymentPaidResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.MarkPaymentPaid is not implemented"))
}

func (UnimplementedTontineServiceHandler) GetPotProgress(context.Context, *connect.Request[api.GetPotProgressRequest]) (*connect.Response[api.GetPotProgressResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.GetPotProgress is not implemented"))
}

func (UnimplementedTontineServiceHandler) AdvanceRound(context.Context, *connect.Request[api.AdvanceRoundRequest]) (*connect.Response[api.AdvanceRoundResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dourou.v1.TontineService.AdvanceRound is not implemented"))
}

// TontineServiceClient is a client for the dourou.v1.TontineService service.
type TontineServiceClient interface {
	CreateTontine(context.Context, *connect.Request[api.CreateTontineRequest]) (*connect.Response[api.CreateTontineResponse], error)
	GetTontine(context.Context, *connect.Request[api.GetTontineRequest]) (*connect.Response[api.GetTontineResponse], error)
	ListTontines(context.Context, *connect.Request[api.ListTontinesRequest]) (*connect.Response[api.ListTontinesResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
	ReorderMembers(context.Context, *connect.Request[api.ReorderMembersRequest]) (*connect.Response[api.ReorderMembersResponse], error)
	ShuffleMembers(context.Context, *connect.Request[api.ShuffleMembersRequest]) (*connect.Response[api.ShuffleMembersResponse], error)
	LaunchTontine(context.Context, *connect.Request[api.LaunchTontineRequest]) (*connect.Response[api.LaunchTontineResponse], error)
	DeclarePayment(context.Context, *connect.Request[api.DeclarePaymentRequest]) (*connect.Response[api.DeclarePaymentResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
	MarkPaymentPaid(context.Context, *connect.Request[api.MarkPaymentPaidRequest]) (*connect.Response[api.MarkPaymentPaidResponse], error)
	GetPotProgress(context.Context, *connect.Request[api.GetPotProgressRequest]) (*connect.Response[api.GetPotProgressResponse], error)
	AdvanceRound(context.Context, *connect.Request[api.AdvanceRoundRequest]) (*connect.Response[api.AdvanceRoundResponse], error)
}

// NewTontineServiceClient constructs a client for the service rooted at
// baseURL (for example, http://localhost:8080). The JSON codec of package api
// is always installed.
func NewTontineServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TontineServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &tontineServiceClient{
		createTontine:   connect.NewClient[api.CreateTontineRequest, api.CreateTontineResponse](httpClient, baseURL+TontineServiceCreateTontineProcedure, opts...),
		getTontine:      connect.NewClient[api.GetTontineRequest, api.GetTontineResponse](httpClient, baseURL+TontineServiceGetTontineProcedure, opts...),
		listTontines:    connect.NewClient[api.ListTontinesRequest, api.ListTontinesResponse](httpClient, baseURL+TontineServiceListTontinesProcedure, opts...),
		addMember:       connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+TontineServiceAddMemberProcedure, opts...),
		removeMember:    connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+TontineServiceRemoveMemberProcedure, opts...),
		reorderMembers:  connect.NewClient[api.ReorderMembersRequest, api.ReorderMembersResponse](httpClient, baseURL+TontineServiceReorderMembersProcedure, opts...),
		shuffleMembers:  connect.NewClient[api.ShuffleMembersRequest, api.ShuffleMembersResponse](httpClient, baseURL+TontineServiceShuffleMembersProcedure, opts...),
		launchTontine:   connect.NewClient[api.LaunchTontineRequest, api.LaunchTontineResponse](httpClient, baseURL+TontineServiceLaunchTontineProcedure, opts...),
		declarePayment:  connect.NewClient[api.DeclarePaymentRequest, api.DeclarePaymentResponse](httpClient, baseURL+TontineServiceDeclarePaymentProcedure, opts...),
		confirmPayment:  connect.NewClient[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse](httpClient, baseURL+TontineServiceConfirmPaymentProcedure, opts...),
		markPaymentPaid: connect.NewClient[api.MarkPaymentPaidRequest, api.MarkPaymentPaidResponse](httpClient, baseURL+TontineServiceMarkPaymentPaidProcedure, opts...),
		getPotProgress:  connect.NewClient[api.GetPotProgressRequest, api.GetPotProgressResponse](httpClient, baseURL+TontineServiceGetPotProgressProcedure, opts...),
		advanceRound:    connect.NewClient[api.AdvanceRoundRequest, api.AdvanceRoundResponse](httpClient, baseURL+TontineServiceAdvanceRoundProcedure, opts...),
	}
}

type tontineServiceClient struct {
	createTontine   *connect.Client[api.CreateTontineRequest, api.CreateTontineResponse]
	getTontine      *connect.Client[api.GetTontineRequest, api.GetTontineResponse]
	listTontines    *connect.Client[api.ListTontinesRequest, api.ListTontinesResponse]
	addMember       *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	removeMember    *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
	reorderMembers  *connect.Client[api.ReorderMembersRequest, api.ReorderMembersResponse]
	shuffleMembers  *connect.Client[api.ShuffleMembersRequest, api.ShuffleMembersResponse]
	launchTontine   *connect.Client[api.LaunchTontineRequest, api.LaunchTontineResponse]
	declarePayment  *connect.Client[api.DeclarePaymentRequest, api.DeclarePaymentResponse]
	confirmPayment  *connect.Client[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse]
	markPaymentPaid *connect.Client[api.MarkPaymentPaidRequest, api.MarkPaymentPaidResponse]
	getPotProgress  *connect.Client[api.GetPotProgressRequest, api.GetPotProgressResponse]
	advanceRound    *connect.Client[api.AdvanceRoundRequest, api.AdvanceRoundResponse]
}

func (c *tontineServiceClient) CreateTontine(ctx context.Context, req *connect.Request[api.CreateTontineRequest]) (*connect.Response[api.CreateTontineResponse], error) {
	return c.createTontine.CallUnary(ctx, req)
}

func (c *tontineServiceClient) GetTontine(ctx context.Context, req *connect.Request[api.GetTontineRequest]) (*connect.Response[api.GetTontineResponse], error) {
	return c.getTontine.CallUnary(ctx, req)
}

func (c *tontineServiceClient) ListTontines(ctx context.Context, req *connect.Request[api.ListTontinesRequest]) (*connect.Response[api.ListTontinesResponse], error) {
	return c.listTontines.CallUnary(ctx, req)
}

func (c *tontineServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *tontineServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *tontineServiceClient) ReorderMembers(ctx context.Context, req *connect.Request[api.ReorderMembersRequest]) (*connect.Response[api.ReorderMembersResponse], error) {
	return c.reorderMembers.CallUnary(ctx, req)
}

func (c *tontineServiceClient) ShuffleMembers(ctx context.Context, req *connect.Request[api.ShuffleMembersRequest]) (*connect.Response[api.ShuffleMembersResponse], error) {
	return c.shuffleMembers.CallUnary(ctx, req)
}

func (c *tontineServiceClient) LaunchTontine(ctx context.Context, req *connect.Request[api.LaunchTontineRequest]) (*connect.Response[api.LaunchTontineResponse], error) {
	return c.launchTontine.CallUnary(ctx, req)
}

func (c *tontineServiceClient) DeclarePayment(ctx context.Context, req *connect.Request[api.DeclarePaymentRequest]) (*connect.Response[api.DeclarePaymentResponse], error) {
	return c.declarePayment.CallUnary(ctx, req)
}

func (c *tontineServiceClient) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	return c.confirmPayment.CallUnary(ctx, req)
}

func (c *tontineServiceClient) MarkPaymentPaid(ctx context.Context, req *connect.Request[api.MarkPaymentPaidRequest]) (*connect.Response[api.MarkPaymentPaidResponse], error) {
	return c.markPaymentPaid.CallUnary(ctx, req)
}

func (c *tontineServiceClient) GetPotProgress(ctx context.Context, req *connect.Request[api.GetPotProgressRequest]) (*connect.Response[api.GetPotProgressResponse], error) {
	return c.getPotProgress.CallUnary(ctx, req)
}

func (c *tontineServiceClient) AdvanceRound(ctx context.Context, req *connect.Request[api.AdvanceRoundRequest]) (*connect.Response[api.AdvanceRoundResponse], error) {
	return c.advanceRound.CallUnary(ctx, req)
}
