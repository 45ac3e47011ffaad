// Package logctx implements declarative logging-context propagation.
//
// A Store is a per-request (per unit of execution) string-to-string map that
// the log pipeline reads implicitly. The Engine evaluates "key=expression"
// declarations against a method's arguments, writes the results into the
// Store before the call runs, and removes exactly those keys afterwards, no
// matter how the call terminates.
//
// # Declaring context
//
// Declarations attach to methods or types through explicit metadata, since Go
// has no runtime annotations or parameter-name reflection:
//
//	var orderServiceType = &logctx.Type{
//	    Name: "OrderService",
//	    Methods: map[string]logctx.Method{
//	        "PlaceOrder": {
//	            Params:      []string{"id", "customer"},
//	            Expressions: []string{"orderId=id", "customerName=customer.Name"},
//	        },
//	    },
//	}
//
//	func (s *OrderService) PlaceOrder(ctx context.Context, id string, customer Customer) error {
//	    return s.engine.Invoke(ctx, orderServiceType, "PlaceOrder", []any{id, customer},
//	        func(ctx context.Context) error {
//	            // logs emitted here carry orderId and customerName
//	            return s.place(ctx, id, customer)
//	        })
//	}
//
// A method-level declaration set fully replaces the type-level set; it never
// merges with it. Declaring a method with an explicitly empty (non-nil) set
// therefore suppresses type-level context for that method. See Resolve.
//
// # Store placement
//
// The Store rides on context.Context (WithStore / FromContext) instead of
// thread-local state; the observable contract is the same: values are set
// before the wrapped call starts and removed after it ends. The HTTP seeding
// middleware installs one Store per request and clears it on completion.
package logctx
