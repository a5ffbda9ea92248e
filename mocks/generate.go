package mocks

//go:generate mockgen -destination=./mock_transport.go -package=mocks github.com/rxtech-lab/tokenstream/internal/transport Transport
//go:generate mockgen -destination=./mock_event_writer.go -package=mocks github.com/rxtech-lab/tokenstream/pkg/stream/writer EventWriter
