// Package event provides the notification bus between the interaction
// engine and the toolbox UI that renders its state.
//
// Delivery is synchronous: Publish runs every matching handler in the
// publisher's goroutine before returning, which keeps notifications in the
// same order as the state transitions that caused them. A panicking
// handler is recovered and counted; it never breaks the publisher.
//
// # Subscriptions
//
// Subscribe returns an explicit Subscription handle. Cancelling it stops
// delivery; the engine cancels all of its own handles on teardown.
//
//	sub, err := bus.Subscribe("selection.*", func(env event.Envelope) {
//	    fmt.Println("selection is now", env.Payload)
//	})
//	defer sub.Cancel()
package event
