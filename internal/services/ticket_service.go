package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
	"github.com/anudeep652/bus-booking-system-sub001/internal/utils"
)

// TicketService renders e-ticket PDFs for confirmed bookings.
type TicketService struct {
	Bookings  BookingStore
	Trips     TripCatalog
	RequestID string
}

func (s TicketService) GenerateETicket(ctx context.Context, userID, bookingID int64) ([]byte, string, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if booking.UserID != userID {
		return nil, "", domain.NotFoundError{Resource: "booking"}
	}
	if booking.BookingStatus == models.BookingCancelled {
		return nil, "", domain.ConflictError{Resource: "booking", Msg: "booking is cancelled"}
	}

	trip, err := s.Trips.GetByID(ctx, booking.TripID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "ticket", "generate_eticket", fmt.Sprintf("booking_id=%d", bookingID))
	pdf, err := buildETicketPDF(booking, trip)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "render e-ticket failed", Err: err}
	}
	filename := fmt.Sprintf("e-ticket-%s.pdf", booking.Code)
	return pdf, filename, nil
}

func buildETicketPDF(booking models.Booking, trip models.Trip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "E-TICKET", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Kode booking: "+booking.Code, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	row("Rute", fmt.Sprintf("%s - %s", trip.Source, trip.Destination))
	row("Berangkat", trip.DepartsAt.Format("2006-01-02 15:04"))
	row("Tiba", trip.ArrivesAt.Format("2006-01-02 15:04"))
	row("Kursi", utils.JoinSeats(booking.SeatNumbers))
	row("Total", utils.FormatRupiah(booking.TotalAmount))
	row("Status pembayaran", strings.ToUpper(string(booking.PaymentStatus)))

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "Tunjukkan e-ticket ini kepada petugas saat keberangkatan. Kursi hangus jika pembayaran belum lunas sebelum jadwal berangkat.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
