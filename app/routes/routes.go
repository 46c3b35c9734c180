package routes

import (
	"net/http"

	"task-tracker/app/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, sessionController *controllers.SessionController, taskController *controllers.TaskController) {
	router.HandleFunc("/session", sessionController.GetSession).Methods(http.MethodGet)
	router.HandleFunc("/session", sessionController.Login).Methods(http.MethodPost)
	router.HandleFunc("/session", sessionController.Logout).Methods(http.MethodDelete)

	router.HandleFunc("/tasks", taskController.GetTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks", taskController.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}", taskController.GetTaskByID).Methods(http.MethodGet)
	router.HandleFunc("/tasks/{taskID}", taskController.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/tasks/{taskID}/toggle", taskController.ToggleTask).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}", taskController.DeleteTask).Methods(http.MethodDelete)
}
