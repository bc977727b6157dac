// Package assistant runs live voice sessions against a streaming completion
// provider. It is transport-agnostic: the host process supplies a Dialer for
// the provider stream and an AudioSource per caller, then owns the Manager's
// lifecycle.
//
// Typical wiring in a host binary:
//
//	mgr, err := assistant.NewManager(liveDialer, logg)
//	if err != nil {
//		return err
//	}
//	defer mgr.Close()
//
//	// per connected client, e.g. inside a websocket handler
//	session, err := mgr.Open(ctx, micSource, func(text string) {
//		push(text)
//	})
//	if err != nil {
//		return err
//	}
//	defer session.Stop()
//
// Close stops every session still live, so shutdown needs no bookkeeping
// beyond the manager itself.
package assistant
