package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"pumpstation/catalog"
	"pumpstation/model"
	"pumpstation/service"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	root := &cobra.Command{
		Use:   "pumpctl",
		Short: "泵站选型离线工具",
	}
	root.AddCommand(importCmd(), evaluateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func importCmd() *cobra.Command {
	var host, port, user, password, fileDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "把目录下所有 xlsx 泵型曲线导入数据库",
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/pumpstation?charset=utf8mb4&parseTime=True&loc=Local", user, password, host, port)
			db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
				Logger: logger.New(
					log.New(os.Stdout, "\r\n", log.LstdFlags),
					logger.Config{
						SlowThreshold: time.Second,
						LogLevel:      logger.Silent,
						Colorful:      false,
					},
				),
			})
			if err != nil {
				return fmt.Errorf("连接mysql失败: %w", err)
			}
			if err := db.AutoMigrate(&model.Pump{}); err != nil {
				return err
			}
			return importDir(cmd, service.NewService(db, ""), fileDir)
		},
	}
	cmd.Flags().StringVarP(&host, "host", "H", "127.0.0.1", "mysql地址")
	cmd.Flags().StringVarP(&port, "port", "p", "3306", "mysql端口")
	cmd.Flags().StringVarP(&user, "user", "u", "root", "mysql账号")
	cmd.Flags().StringVarP(&password, "password", "a", "", "mysql密码")
	cmd.Flags().StringVarP(&fileDir, "dir", "d", "", "excel文件所在的目录")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func importDir(cmd *cobra.Command, svc *service.Service, dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("读取目录失败: %w", err)
	}

	totalPumps := 0
	for _, file := range files {
		now := time.Now()
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".xlsx") {
			continue
		}
		filePath := filepath.Join(dir, file.Name())

		f, err := os.Open(filePath)
		if err != nil {
			cmd.Printf("打开文件 %s 失败: %v\n", filePath, err)
			continue
		}
		res, err := svc.ImportPumps(f)
		f.Close()
		if err != nil {
			cmd.Printf("导入文件 %s 失败: %v\n", filePath, err)
			continue
		}
		cmd.Printf("成功导入文件 %s，%d 台泵 %d 个曲线点，跳过 %d 行，耗时 %.2fs\n",
			filePath, res.ImportedPumps, res.ImportedRows, res.SkippedRows, time.Since(now).Seconds())
		totalPumps += res.ImportedPumps
	}

	cmd.Printf("\n总计导入 %d 台泵\n", totalPumps)
	return nil
}

func evaluateCmd() *cobra.Command {
	var catalogPath, requestPath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "按 JSON 请求文件离线计算",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(requestPath)
			if err != nil {
				return err
			}
			var in service.EvaluateInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("解析请求文件失败: %w", err)
			}

			svc := service.NewService(nil, "")
			svc.SetCatalog(c)
			ev, err := svc.Evaluate(in)
			if err != nil {
				return err
			}
			printEvaluation(cmd, ev)
			return nil
		},
	}
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "./pumps.json", "泵型目录文件")
	cmd.Flags().StringVarP(&requestPath, "file", "f", "", "计算请求 JSON 文件")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printEvaluation(cmd *cobra.Command, ev *service.Evaluation) {
	r := ev.Result
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	if len(r.SegmentResults) > 0 {
		fmt.Fprintln(w, "管段\tV (m/s)\tRe\tf\thf (m)\thm (m)\t总 (m)")
		for _, s := range r.SegmentResults {
			fmt.Fprintf(w, "%s\t%.3f\t%.0f\t%.4f\t%.2f\t%.2f\t%.2f\n",
				s.Segment.Name, s.VelocityMS, s.Reynolds, s.FrictionFactor, s.FrictionLossM, s.MinorLossM, s.TotalLossM)
		}
		fmt.Fprintln(w)
	}

	a := ev.Assessment
	fmt.Fprintf(w, "泵型\t%s %s (%s)\n", ev.Pump.Brand, ev.Pump.Model, ev.Pump.ID)
	fmt.Fprintf(w, "模式\t%s\n", r.Mode)
	fmt.Fprintf(w, "流量\t%.2f L/s\n", r.FlowLs)
	fmt.Fprintf(w, "所需扬程\t%.2f m\n", r.RequiredHeadM)
	fmt.Fprintf(w, "单泵扬程\t%.2f m\n", r.HeadPerUnitM)
	fmt.Fprintf(w, "串联台数\t%d\n", r.UnitsInSeries)
	fmt.Fprintf(w, "效率\t%.1f%% (%s)\n", r.EfficiencyFraction*100, a.EfficiencyBand)
	fmt.Fprintf(w, "功率\t%.2f kW / %.2f hp (%s)\n", r.PowerKW, a.Horsepower, a.PowerBand)
	fmt.Fprintf(w, "负荷率\t%.0f%% (%s)\n", a.LoadRatio*100, a.LoadBand)
	if a.NPSHMarginM != nil {
		fmt.Fprintf(w, "NPSH 余量\t%.2f m\n", *a.NPSHMarginM)
	}
	for _, warn := range a.Warnings {
		fmt.Fprintf(w, "警告\t%s\n", warn)
	}
}
