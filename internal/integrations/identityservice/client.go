package identityservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с IdentityService.
// Используется движком записей для проверки существования клиента,
// автомобиля и сотрудника.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента IdentityService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCustomer получает клиента по ID
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	var customer Customer
	url := fmt.Sprintf("%s/internal/customers/%d", c.baseURL, customerID)
	if err := c.get(ctx, url, ErrCustomerNotFound, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetVehicle получает автомобиль по ID
func (c *Client) GetVehicle(ctx context.Context, vehicleID int64) (*Vehicle, error) {
	var vehicle Vehicle
	url := fmt.Sprintf("%s/internal/vehicles/%d", c.baseURL, vehicleID)
	if err := c.get(ctx, url, ErrVehicleNotFound, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// GetEmployee получает сотрудника по ID
func (c *Client) GetEmployee(ctx context.Context, employeeID int64) (*Employee, error) {
	var employee Employee
	url := fmt.Sprintf("%s/internal/employees/%d", c.baseURL, employeeID)
	if err := c.get(ctx, url, ErrEmployeeNotFound, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// VerifyEmployee проверяет существование сотрудника с graceful degradation.
// При недоступности IdentityService возвращает ErrServiceDegraded -
// вызывающая сторона решает, пропустить проверку или отклонить операцию
// (политика fail_open / fail_closed).
func (c *Client) VerifyEmployee(ctx context.Context, employeeID int64) (*Employee, error) {
	employee, err := c.GetEmployee(ctx, employeeID)
	if err != nil {
		// Бизнес-ошибку (сотрудник не найден) пробрасываем дальше
		if err == ErrEmployeeNotFound {
			c.log.Info("No employee found for employee_id=%d", employeeID)
			return nil, err
		}

		// Для остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("IdentityService unavailable, applying graceful degradation for employee_id=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: employee_id=%d, error=%v", ErrServiceDegraded, employeeID, err)
	}

	return employee, nil
}

// get выполняет GET запрос и декодирует ответ
func (c *Client) get(ctx context.Context, url string, notFoundErr error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
