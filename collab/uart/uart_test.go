package uart

import (
	"testing"

	"github.com/lpc43xx/sgpio/sgpioerr"
)

func TestFractionalDivisorFindsLowErrorForCommonRates(t *testing.T) {
	rates := []uint32{9600, 19200, 38400, 57600, 115200}
	for _, rate := range rates {
		mul, div, err := fractionalDivisor(rate)
		if err != nil {
			t.Fatalf("rate %d: unexpected error: %v", rate, err)
		}
		if div == 0 || mul >= div {
			t.Fatalf("rate %d: invalid divisor pair mul=%d div=%d", rate, mul, div)
		}
	}
}

func TestFractionalDivisorRejectsZero(t *testing.T) {
	_, _, err := fractionalDivisor(0)
	if !sgpioerr.HasKind(err, sgpioerr.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestFractionalDivisorStaysWithinSearchBounds(t *testing.T) {
	mul, div, err := fractionalDivisor(9600)
	if err != nil {
		t.Fatal(err)
	}
	if div < 1 || div > 15 {
		t.Fatalf("div out of range: %d", div)
	}
	if mul < 1 || mul >= div {
		t.Fatalf("mul out of range: %d (div=%d)", mul, div)
	}
}

func TestParityMapping(t *testing.T) {
	if ParityNone.uartx() == ParityEven.uartx() {
		t.Fatal("expected distinct uartx parity values for None and Even")
	}
	if ParityOdd.uartx() == ParityEven.uartx() {
		t.Fatal("expected distinct uartx parity values for Odd and Even")
	}
}

func TestOpenRejectsNonPositiveBufferSizes(t *testing.T) {
	_, err := Open(nil, Config{BaudRate: 9600, RxBuf: 0, TxBuf: 8})
	if !sgpioerr.HasKind(err, sgpioerr.InvalidArgument) {
		t.Fatalf("expected InvalidArgument for zero RxBuf, got %v", err)
	}
}
