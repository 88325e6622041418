package tools

import (
	"fmt"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelTimeLayout 时间列统一的显示格式
const ExcelTimeLayout = "2006-01-02 15:04"

var timeType = reflect.TypeOf(time.Time{})

type column struct {
	index  []int
	header string
}

// WriteSheet 把结构体切片写入 sheet 并设为活动表。表头取 excel 标签，没有标签时用字段名，"-" 跳过；
// 空切片只写表头
func WriteSheet(f *excelize.File, sheet string, data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("data %T 不是切片", data)
	}
	elem := v.Type().Elem()
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("data %T 不是结构体切片", data)
	}

	if sheet == "" {
		sheet = "Sheet1"
	}
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	cols := columns(elem, nil)
	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = col.header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	line := 2
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		if item.Kind() == reflect.Ptr {
			if item.IsNil() {
				continue
			}
			item = item.Elem()
		}
		values := make([]any, len(cols))
		for j, col := range cols {
			values[j] = cellValue(item.FieldByIndex(col.index))
		}
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		line++
	}
	return nil
}

// columns 展开匿名嵌入的结构体，time.Time 作为普通字段
func columns(t reflect.Type, parent []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		index := append(append([]int(nil), parent...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Type != timeType {
			cols = append(cols, columns(sf.Type, index)...)
			continue
		}
		header := sf.Tag.Get("excel")
		switch header {
		case "-":
			continue
		case "":
			header = sf.Name
		}
		cols = append(cols, column{index: index, header: header})
	}
	return cols
}

func cellValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return ""
		}
		fv = fv.Elem()
	}
	if t, ok := fv.Interface().(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(ExcelTimeLayout)
	}
	// 枚举之类的自定义字符串类型
	if fv.Kind() == reflect.String {
		return fv.String()
	}
	return fv.Interface()
}
