package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/dragsim/internal/compare"
	"github.com/san-kum/dragsim/internal/trajectory"
)

var comparisonHeader = []string{"metric", "galileo", "newton"}

// WriteComparisonCSV writes the comparison rows as a metric,galileo,newton
// table in the order given.
func WriteComparisonCSV(w io.Writer, rows []compare.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(comparisonHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Metric, formatFloat(r.Galileo), formatFloat(r.Newton)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func SaveComparisonCSV(path string, rows []compare.Row) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteComparisonCSV(w, rows)
	})
}

// WriteTrajectoryCSV dumps every sample of a trajectory as t,x,y,u,w.
func WriteTrajectoryCSV(w io.Writer, tr *trajectory.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "x", "y", "u", "w"}); err != nil {
		return err
	}
	for _, s := range tr.Samples {
		record := []string{formatFloat(s.T), formatFloat(s.X), formatFloat(s.Y), formatFloat(s.U), formatFloat(s.W)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
