package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getVapidKey",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications/vapid-key",
		Summary:     "Get VAPID public key",
		Description: "Returns the application server key clients need to create a push subscription",
		Tags:        []string{"Notifications"},
	}, s.handleGetVapidKey)

	huma.Register(s.api, huma.Operation{
		OperationID: "registerPushEndpoint",
		Method:      http.MethodPut,
		Path:        "/api/v1/notifications/endpoint",
		Summary:     "Register push endpoint",
		Description: "Stores the user's Web Push subscription; registering again replaces the previous one",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRegisterPushEndpoint)

	huma.Register(s.api, huma.Operation{
		OperationID: "unregisterPushEndpoint",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notifications/endpoint",
		Summary:     "Unregister push endpoint",
		Description: "Clears the user's stored Web Push subscription",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnregisterPushEndpoint)
}

// === DTOs ===

// VapidKeyResponse carries the public application server key.
type VapidKeyResponse struct {
	PublicKey string `json:"public_key" doc:"VAPID public key, base64url-encoded"`
}

// VapidKeyOutput wraps the key response for Huma.
type VapidKeyOutput struct {
	Body VapidKeyResponse
}

// PushEndpointKeys are the client encryption keys of a push subscription.
type PushEndpointKeys struct {
	P256dh string `json:"p256dh" doc:"Client public key"`
	Auth   string `json:"auth" doc:"Client auth secret"`
}

// RegisterPushEndpointRequest is a Web Push subscription as handed out by the
// browser's Push API.
type RegisterPushEndpointRequest struct {
	Endpoint string           `json:"endpoint" doc:"Push service delivery URL"`
	Keys     PushEndpointKeys `json:"keys" doc:"Client encryption keys"`
}

// RegisterPushEndpointInput wraps the subscription for Huma. RawBody keeps the
// exact blob the client sent; it is stored verbatim.
type RegisterPushEndpointInput struct {
	RawBody []byte `contentType:"application/json"`
	Body    RegisterPushEndpointRequest
}

// PushEndpointOutput is the (empty) response for endpoint registration.
type PushEndpointOutput struct {
	Status int
}

// === Handlers ===

func (s *Server) handleGetVapidKey(_ context.Context, _ *struct{}) (*VapidKeyOutput, error) {
	return &VapidKeyOutput{Body: VapidKeyResponse{
		PublicKey: s.services.Notification.PublicKey(),
	}}, nil
}

func (s *Server) handleRegisterPushEndpoint(ctx context.Context, input *RegisterPushEndpointInput) (*PushEndpointOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Notification.RegisterEndpoint(ctx, userID, string(input.RawBody)); err != nil {
		return nil, err
	}

	return &PushEndpointOutput{Status: http.StatusNoContent}, nil
}

func (s *Server) handleUnregisterPushEndpoint(ctx context.Context, _ *struct{}) (*PushEndpointOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Notification.UnregisterEndpoint(ctx, userID); err != nil {
		return nil, err
	}

	return &PushEndpointOutput{Status: http.StatusNoContent}, nil
}
