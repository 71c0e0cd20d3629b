package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	app "mcq-grader/internal/application"
	"mcq-grader/internal/domain/entity"
	"mcq-grader/internal/infrastructure/storage"
	"mcq-grader/internal/infrastructure/vision"
)

func main() {
	keyPtr := flag.String("key", "", "Путь к эталонному бланку (обязательно)")
	sheetsPtr := flag.String("sheets", "", "Путь к бланку студента или папке с бланками (png, jpg, bmp, tiff, webp)")
	layoutPtr := flag.String("layout", "", "YAML-файл шаблона листа (по умолчанию: стандартный 4×3)")
	modelPtr := flag.String("model", "cnn_model.onnx", "Путь к модели классификатора")
	outPtr := flag.String("out", "", "Файл для CSV-ведомости (по умолчанию: stdout)")
	metadataPtr := flag.String("metadata", "", "Сохранить ключ ответов в JSON-файл")
	dumpLayoutPtr := flag.String("dump-layout", "", "Сохранить стандартный шаблон в YAML и выйти")

	flag.Parse()

	if *dumpLayoutPtr != "" {
		if err := storage.WriteLayout(entity.DefaultLayout(), *dumpLayoutPtr); err != nil {
			log.Fatalf("[-] Ошибка записи шаблона: %v", err)
		}
		fmt.Fprintf(os.Stderr, "[*] Шаблон сохранён: %s\n", *dumpLayoutPtr)
		return
	}

	if *keyPtr == "" {
		log.Fatal("[-] Ошибка: не задан -key")
	}

	layout := entity.DefaultLayout()
	if *layoutPtr != "" {
		var err error
		layout, err = storage.ReadLayout(*layoutPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка шаблона: %v", err)
		}
	}

	ctx := context.Background()
	classifier := vision.NewGoCVClassifier(*modelPtr)
	defer classifier.Close()
	if err := classifier.Ready(ctx); err != nil {
		log.Fatalf("[-] Модель недоступна: %v", err)
	}

	users := app.NewUserService(storage.NewMemoryUserRepository())
	svc := app.NewGradingService(users, classifier, vision.NewFileImageLoader(), nil, nil, layout)

	key, err := svc.ExtractMetadataFile(ctx, *keyPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка эталона: %v", err)
	}
	fmt.Fprintf(os.Stderr, "[*] Ключ ответов: %d вопросов\n", len(key.Questions))

	if *metadataPtr != "" {
		data, err := json.MarshalIndent(key, "", "  ")
		if err != nil {
			log.Fatalf("[-] Ошибка кодирования ключа: %v", err)
		}
		if err := os.WriteFile(*metadataPtr, data, 0644); err != nil {
			log.Fatalf("[-] Ошибка записи ключа: %v", err)
		}
	}

	if *sheetsPtr == "" {
		return
	}

	fi, err := os.Stat(*sheetsPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения бланков: %v", err)
	}

	var results []entity.GradingResult
	if !fi.IsDir() {
		// Один бланк: ошибка чтения завершает программу.
		score, err := svc.GradeOneFile(ctx, *sheetsPtr, key)
		if err != nil {
			log.Fatalf("[-] Ошибка проверки %s: %v", *sheetsPtr, err)
		}
		results = []entity.GradingResult{entity.NewGradingResult(filepath.Base(*sheetsPtr), score)}
	} else {
		sheets, err := vision.SheetSources(*sheetsPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения бланков: %v", err)
		}
		if len(sheets) == 0 {
			log.Fatalf("[-] Ошибка: в %s нет изображений", *sheetsPtr)
		}
		results, err = svc.GradeMany(ctx, sheets, key)
		if err != nil {
			log.Fatalf("[-] Ошибка проверки: %v", err)
		}
	}

	var out io.Writer = os.Stdout
	if *outPtr != "" {
		f, err := os.Create(*outPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка создания %s: %v", *outPtr, err)
		}
		defer f.Close()
		out = f
	}
	if err := app.WriteResultsCSV(out, results); err != nil {
		log.Fatalf("[-] Ошибка записи ведомости: %v", err)
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	fmt.Fprintf(os.Stderr, "[+] Проверено бланков: %d, с ошибками: %d\n", len(results), failed)
}
