package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pluvialabs/rainproc/internal/codec"
)

// Flag-driven transaction submitter for local testing.
var (
	targetURL string
	verb      string
	purchase  string
	name      string
	mail      string
	bank      uint64
	place     string
	town      string
	province  string
	checkin   string
	checkout  string
	days      int64
	rain      string
	startHour string
	endHour   string
	refund    uint64
	total     float64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.StringVar(&verb, "verb", "buy", "Transaction verb: buy | calculate | getData")
	flag.StringVar(&purchase, "purchase", "", "Purchase id (required)")
	flag.StringVar(&name, "name", "Ana", "Policyholder name")
	flag.StringVar(&mail, "mail", "ana@example.com", "Policyholder mail")
	flag.Uint64Var(&bank, "bank", 1234567890123456, "Bank account (16 digits)")
	flag.StringVar(&place, "place", "Calle Mayor 1", "Insured place address")
	flag.StringVar(&town, "town", "Santander", "Town")
	flag.StringVar(&province, "province", "Cantabria", "Province")
	flag.StringVar(&checkin, "checkin", "2026-06-01", "Check-in date")
	flag.StringVar(&checkout, "checkout", "2026-06-08", "Check-out date")
	flag.Int64Var(&days, "days", 7, "Number of insured days")
	flag.StringVar(&rain, "rain", "moderate", "Rain amount category")
	flag.StringVar(&startHour, "start", "10:00", "Coverage start hour")
	flag.StringVar(&endHour, "end", "18:00", "Coverage end hour")
	flag.Uint64Var(&refund, "refund", 0, "Refund value (initial on buy, delta otherwise)")
	flag.Float64Var(&total, "total", 500, "Policy total")
}

func main() {
	flag.Parse()
	if purchase == "" {
		log.Fatal("-purchase is required")
	}

	payload, err := codec.EncodePayload(map[string]any{
		"verb":         verb,
		"name":         name,
		"mail":         mail,
		"bankAccount":  bank,
		"placeAddress": place,
		"town":         town,
		"province":     province,
		"checkinDate":  checkin,
		"checkoutDate": checkout,
		"days":         days,
		"rainAmount":   rain,
		"startHour":    startHour,
		"endHour":      endHour,
		"refund":       refund,
		"purchase":     purchase,
		"total":        total,
	})
	if err != nil {
		log.Fatalf("Encoding failed: %v", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(targetURL+"/api/v1/transactions", "application/cbor", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s %s\n", resp.Status, body)
}
