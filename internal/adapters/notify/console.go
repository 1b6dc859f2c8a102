package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/phxauto/phoenixbid/internal/domain"
)

// console.go — report del scan en consola.
//
// El formato está pensado para leerse en el móvil de pie en la subasta:
// tabla de piezas con los tres tiers, totales, y las tres pujas recomendadas
// bien visibles al final.

// Console implementa ports.Notifier escribiendo el report a un writer.
type Console struct {
	out     io.Writer
	verbose bool // incluye reasoning por pieza
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(verbose bool) *Console {
	return &Console{out: os.Stdout, verbose: verbose}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, verbose bool) *Console {
	return &Console{out: w, verbose: verbose}
}

// Notify imprime el report completo del scan.
func (c *Console) Notify(_ context.Context, result domain.ScanResult) error {
	fmt.Fprintf(c.out, "\n=== SCAN %s — %s ===\n", result.VIN, result.Vehicle)
	if label := result.Vehicle.EngineLabel(); label != "" {
		fmt.Fprintf(c.out, "Engine: %s\n", label)
	}
	for _, spec := range result.Vehicle.Specs() {
		fmt.Fprintf(c.out, "%s\n", spec)
	}
	fmt.Fprintf(c.out, "Scanned: %s  Status: %s\n\n",
		result.ScannedAt.Format(time.DateTime), result.Status())

	c.printParts(result)
	c.printBids(result)
	c.printWarnings(result)
	return nil
}

// printParts imprime la tabla de piezas con totales al pie.
func (c *Console) printParts(result domain.ScanResult) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Part", "Budget", "Standard", "Premium", "Items", "Confidence")

	for _, name := range result.Order {
		est := result.Parts[name]
		if est.Failed() {
			table.Append(name, "-", "-", "-", fmt.Sprintf("%d", est.ItemsAnalyzed), "FAILED")
			continue
		}
		table.Append(
			name,
			fmt.Sprintf("$%.0f", est.Low),
			fmt.Sprintf("$%.0f", est.Average),
			fmt.Sprintf("$%.0f", est.High),
			fmt.Sprintf("%d", est.ItemsAnalyzed-est.ItemsFilteredOut),
			est.Confidence.Label(),
		)
	}
	table.Append(
		"TOTAL",
		fmt.Sprintf("$%.0f", result.Totals.Low),
		fmt.Sprintf("$%.0f", result.Totals.Average),
		fmt.Sprintf("$%.0f", result.Totals.High),
		"", "",
	)
	table.Render()

	if c.verbose {
		for _, name := range result.Order {
			est := result.Parts[name]
			if est.Reasoning != "" {
				fmt.Fprintf(c.out, "  %s: %s\n", name, est.Reasoning)
			}
			if est.ConfidenceExplanation != "" {
				fmt.Fprintf(c.out, "  %s confidence: %s\n", name, est.ConfidenceExplanation)
			}
		}
	}
}

// printBids imprime las pujas recomendadas por escenario.
func (c *Console) printBids(result domain.ScanResult) {
	fmt.Fprintf(c.out, "\nRECOMMENDED BIDS\n")
	fmt.Fprintf(c.out, "  Conservative (budget):   $%.0f\n", result.Bids.Low)
	fmt.Fprintf(c.out, "  Standard (most likely):  $%.0f\n", result.Bids.Average)
	fmt.Fprintf(c.out, "  Aggressive (premium):    $%.0f\n", result.Bids.High)
}

// printWarnings lista piezas fallidas y de baja confianza.
func (c *Console) printWarnings(result domain.ScanResult) {
	if failed := result.FailedParts(); len(failed) > 0 {
		fmt.Fprintf(c.out, "\n⚠ no price data: %s\n", strings.Join(failed, ", "))
		fmt.Fprintf(c.out, "  las pujas NO incluyen estas piezas — revisar a mano\n")
	}
	if low := result.LowConfidenceParts(); len(low) > 0 {
		fmt.Fprintf(c.out, "\n⚠ low confidence: %s\n", strings.Join(low, ", "))
	}
	fmt.Fprintln(c.out)
}
