// Package wsroute is the routing core for a WebSocket endpoint: it decides,
// at registration time, how each user handler maps onto the wire message
// categories (text, binary, pong) and which payload decoders apply, and it
// provides the two small runtime utilities that decision feeds — pooled
// masking-key generation and close-code normalization.
//
// # Quick Start
//
// Define a handler for the payload type you want to receive:
//
//	type StockTick struct {
//	    Symbol string  `json:"symbol"`
//	    Price  float64 `json:"price"`
//	}
//
//	type TickHandler struct{}
//
//	func (h *TickHandler) Handle(ctx context.Context, tick StockTick) error {
//	    fmt.Println(tick.Symbol, tick.Price)
//	    return nil
//	}
//
// Configure decoders, create an endpoint, and register:
//
//	cfg, err := wsroute.NewEndpointConfig(
//	    wsroute.JSONDecoderEntry[StockTick]("symbol"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	e := wsroute.NewEndpoint(cfg)
//	if err := wsroute.Register(e, &TickHandler{}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Frame layer feeds messages:
//	err = e.Dispatch(ctx, wsroute.Text, `{"symbol":"ACME","price":12.5}`)
//
// # Routing
//
// Registration resolves the handler's payload type and classifies it. The
// native types — string, []byte, PongMessage, io.Reader, io.RuneReader —
// route directly (stream types through a converting adapter). Any other
// payload type is matched against the endpoint's ordered decoder list and
// the handler is wrapped with the applicable decoders per category; the same
// handler can produce both a binary and a text route. A handler whose type
// matches nothing fails registration with UnsupportedHandlerError.
//
// Routes are built once and immutable afterward: Dispatch and Routes are
// safe for concurrent use once registration is complete.
//
// # Decoders
//
// Decoders declare the payload type they produce, and a kind: binary or
// text, simple or stream. Simple decoders may decline individual messages
// (WillDecode), so several can be configured for one type and are probed in
// configuration order. Stream decoders always consume, so a stream match
// ends decoder matching for its category. Decoder constructors run once at
// configuration time; a constructor that fails or produces an instance not
// matching its declared kind fails deployment immediately rather than on
// first message.
//
// # Masking Keys
//
// Outbound client frames need 4-byte masking keys. MaskSource hands out keys
// from a pool of seeded generators so the expensive seeding step is paid
// once per generator rather than per key:
//
//	key := wsroute.NextMask()
//
// # Close Codes
//
// NormalizeCloseCode folds raw close-handshake codes into the CloseReason
// taxonomy, mapping codes that may not legitimately appear on the wire to
// ProtocolError.
//
// # Hooks
//
// The package takes no logging or metrics dependency. Observability is
// offered through functional options, in the spirit of the rest of the API:
//
//	e := wsroute.NewEndpoint(cfg,
//	    wsroute.WithOnRegister(func(handler string, cat wsroute.MessageCategory) {
//	        log.Printf("route %s -> %s", cat, handler)
//	    }),
//	    wsroute.WithOnDispatchError(func(ctx context.Context, cat wsroute.MessageCategory, err error, d time.Duration) {
//	        log.Printf("dispatch %s failed after %v: %v", cat, d, err)
//	    }),
//	)
package wsroute
