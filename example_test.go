package wsroute_test

import (
	"context"
	"fmt"
	"log"

	"github.com/bjaus/wsroute"
)

// StockTick is a decoded payload type.
type StockTick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// TickHandler handles stock ticks.
type TickHandler struct{}

func (h *TickHandler) Handle(ctx context.Context, t StockTick) error {
	fmt.Printf("%s @ %.2f\n", t.Symbol, t.Price)
	return nil
}

func Example() {
	// Configure decoders in priority order.
	cfg, err := wsroute.NewEndpointConfig(
		wsroute.JSONDecoderEntry[StockTick]("symbol"),
	)
	if err != nil {
		log.Fatal(err)
	}

	e := wsroute.NewEndpoint(cfg)

	// Register a typed handler.
	if err := wsroute.Register(e, &TickHandler{}); err != nil {
		log.Fatal(err)
	}

	// The frame layer feeds incoming messages by category.
	msg := `{"symbol": "ACME", "price": 12.50}`
	if err := e.Dispatch(context.Background(), wsroute.Text, msg); err != nil {
		log.Fatal(err)
	}

	// Output:
	// ACME @ 12.50
}

func Example_handlerFunc() {
	e := wsroute.NewEndpoint(nil)

	// Native payload types route without decoders.
	err := wsroute.RegisterFunc(e, func(ctx context.Context, text string) error {
		fmt.Println("text:", text)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	_ = e.Dispatch(context.Background(), wsroute.Text, "hello")

	// Output:
	// text: hello
}

func ExampleNormalizeCloseCode() {
	fmt.Println(wsroute.NormalizeCloseCode(1001))
	fmt.Println(wsroute.NormalizeCloseCode(3500))
	fmt.Println(wsroute.NormalizeCloseCode(1005))

	// Output:
	// going away
	// normal closure
	// protocol error
}

func ExampleNextMask() {
	key := wsroute.NextMask()
	fmt.Println(len(key))

	// Output:
	// 4
}
