package integration

import (
	"testing"

	"tourly/internal/models"
)

// TestAPI_HealthCheck verifies the live service responds
func TestAPI_HealthCheck(t *testing.T) {
	client := newLiveClient(t)

	LogTestStep(t, "Testing API health check")
	client.HealthCheck(t)
	LogTestResult(t, "API is healthy and responding")
}

// TestAPI_ReservationFlow exercises hold creation and details against the live stack
func TestAPI_ReservationFlow(t *testing.T) {
	client := newLiveClient(t)
	tourID, startDate, endDate := testTourRef()

	LogTestStep(t, "Creating a hold on tour %s", tourID)
	created := client.CreateReservation(t, models.CreateReservationRequest{
		TourID:    tourID,
		StartDate: startDate,
		EndDate:   endDate,
		Adults:    2,
	})
	if created.ReserveID == "" {
		t.Fatal("Expected a non-empty reserve id")
	}
	LogTestResult(t, "Hold %s created", created.ReserveID)

	LogTestStep(t, "Fetching reservation details")
	details := client.GetReservation(t, created.ReserveID)

	if details.ReserveID != created.ReserveID {
		t.Fatalf("Details returned reserve id %s, expected %s", details.ReserveID, created.ReserveID)
	}
	if details.TotalAmount <= 0 {
		t.Fatalf("Expected a positive total amount, got %d", details.TotalAmount)
	}
	if details.Passengers.Adults != 2 {
		t.Fatalf("Expected 2 adults, got %d", details.Passengers.Adults)
	}
	if details.Tour.ID != tourID {
		t.Fatalf("Details carry tour %s, expected %s", details.Tour.ID, tourID)
	}
	LogTestResult(t, "Details consistent, total %d %s", details.TotalAmount, details.Currency)

	LogTestStep(t, "Releasing the hold via the scheduler callback")
	release := client.ReleaseReservation(t, created.ReserveID)
	if !release.Released {
		t.Skip("Hold not yet expired on the server, release correctly refused")
	}
	LogTestResult(t, "Seats returned to inventory")
}

// TestAPI_BookingFlow converts a fresh hold and simulates the gateway outcome
func TestAPI_BookingFlow(t *testing.T) {
	client := newLiveClient(t)
	if client.WebhookSecret == "" {
		t.Skipf("%s not set, cannot sign simulated gateway events", envWebhookSecret)
	}
	tourID, startDate, endDate := testTourRef()

	created := client.CreateReservation(t, models.CreateReservationRequest{
		TourID:    tourID,
		StartDate: startDate,
		EndDate:   endDate,
		Adults:    1,
	})
	details := client.GetReservation(t, created.ReserveID)

	LogTestStep(t, "Converting hold %s into a booking", created.ReserveID)
	booked := client.BookReservation(t, created.ReserveID, models.BookReservationRequest{
		Name:  "Integration Tester",
		Email: "integration@example.com",
		Phone: "+7 700 000 0000",
	})
	if booked.ClientSecret == "" {
		t.Fatal("Expected a client secret for browser-side payment")
	}
	LogTestResult(t, "Booking %s created", booked.BookingID)

	LogTestStep(t, "Delivering a simulated failed-payment event")
	status := client.SendWebhook(t, models.GatewayWebhookEvent{
		EventID:  "it-" + booked.BookingID,
		Type:     models.GatewayEventFailed,
		Amount:   details.TotalAmount,
		Currency: details.Currency,
		Metadata: models.GatewayEventMetadata{BookingID: booked.BookingID},
	})
	// The stored user id is unknown to the test, so the owner check may
	// legitimately reject the event with 400.
	if status != 200 && status != 400 {
		t.Fatalf("Unexpected webhook status %d", status)
	}
	LogTestResult(t, "Webhook acknowledged with status %d", status)
}
